package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academy-admin-api/api/swagger"
	"github.com/noah-isme/academy-admin-api/internal/handler"
	"github.com/noah-isme/academy-admin-api/internal/middleware"
	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	"github.com/noah-isme/academy-admin-api/internal/seed"
	"github.com/noah-isme/academy-admin-api/internal/service"
	"github.com/noah-isme/academy-admin-api/pkg/cache"
	"github.com/noah-isme/academy-admin-api/pkg/config"
	"github.com/noah-isme/academy-admin-api/pkg/jobs"
	"github.com/noah-isme/academy-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academy-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academy-admin-api/pkg/middleware/requestid"
	"github.com/noah-isme/academy-admin-api/pkg/storage"
)

// @title Academy Admin API
// @version 1.0.0
// @description Student, class, attendance and backup administration for a training center
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repository.NewEntityStore()
	ledger := repository.NewAttendanceLedger()
	settingsStore := repository.NewSettingsStore(models.DefaultSettings(), models.DefaultProfile())
	if cfg.Seed.MockData {
		seed.Load(store, logr)
	}

	archive, err := storage.NewLocalStorage(cfg.Backup.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare backup storage", zap.String("dir", cfg.Backup.StorageDir), zap.Error(err))
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	backupCfg := service.BackupConfig{
		SystemVersion:    cfg.Backup.SystemVersion,
		MigrateClassRefs: cfg.Backup.MigrateClassRefs,
		MirrorEnabled:    cfg.Snapshot.Enabled,
		SnapshotKey:      cfg.Snapshot.Key,
		SnapshotTTL:      cfg.Snapshot.TTL,
		Retention:        cfg.Backup.Retention,
	}

	membership := service.NewMembershipService(store, cfg.Roster, metrics, logr)
	attendance := service.NewAttendanceService(ledger, store, membership, metrics, logr)
	students := service.NewStudentService(store, membership, attendance, validate, logr)
	classes := service.NewClassService(store, membership, validate, logr)
	settings := service.NewSettingsService(settingsStore, validate, logr)
	exports := service.NewExportService(membership, metrics, logr, nil, nil, nil)
	dashboard := service.NewDashboardService(store, membership, logr)

	var (
		backups       *service.BackupService
		metricsHandle *handler.MetricsHandler
	)
	if cfg.Snapshot.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("snapshot mirror unreachable, continuing degraded", zap.Error(err))
			redisClient = redis.NewClient(cache.Options(cfg.Redis))
		}
		snapshots := repository.NewSnapshotRepository(redisClient, logr)
		defer snapshots.Close() //nolint:errcheck
		backups = service.NewBackupService(store, settings, membership, attendance, archive, snapshots, backupCfg, metrics, logr)
		metricsHandle = handler.NewMetricsHandler(metrics, snapshots)
	} else {
		backups = service.NewBackupService(store, settings, membership, attendance, archive, nil, backupCfg, metrics, logr)
		metricsHandle = handler.NewMetricsHandler(metrics, nil)
	}

	queue := jobs.NewQueue("backup", backups.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Backup.WorkerConcurrency,
		MaxRetries: cfg.Backup.WorkerRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()
	if cfg.Backup.AutosaveInterval > 0 {
		if err := queue.Every(cfg.Backup.AutosaveInterval, service.JobTypeArchive); err != nil {
			logr.Warn("autosave disabled", zap.Error(err))
		} else {
			logr.Info("autosave scheduled", zap.Duration("interval", cfg.Backup.AutosaveInterval))
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(corsmiddleware.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		ExtraHeaders:   []string{cfg.Roles.Header},
	}))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metrics))
	}

	handler.Register(r, handler.Handlers{
		Students:   handler.NewStudentHandler(students),
		Classes:    handler.NewClassHandler(classes),
		Attendance: handler.NewAttendanceHandler(attendance, validate),
		Exports:    handler.NewExportHandler(students, attendance, exports),
		Backups:    handler.NewBackupHandler(backups),
		Settings:   handler.NewSettingsHandler(settings),
		Dashboard:  handler.NewDashboardHandler(dashboard, metrics),
		Metrics:    metricsHandle,
	}, handler.RouterOptions{
		APIPrefix:      cfg.APIPrefix,
		RoleHeader:     cfg.Roles.Header,
		MetricsEnabled: cfg.Metrics.Enabled,
		Logger:         logr,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
