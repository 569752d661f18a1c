package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/middleware"
	"github.com/noah-isme/academy-admin-api/internal/models"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Students   *StudentHandler
	Classes    *ClassHandler
	Attendance *AttendanceHandler
	Exports    *ExportHandler
	Backups    *BackupHandler
	Settings   *SettingsHandler
	Dashboard  *DashboardHandler
	Metrics    *MetricsHandler
}

// RouterOptions tunes route registration.
type RouterOptions struct {
	APIPrefix      string
	RoleHeader     string
	MetricsEnabled bool
	Logger         *zap.Logger
}

// Register mounts health, metrics and the API group on r.
func Register(r *gin.Engine, h Handlers, opts RouterOptions) {
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if opts.MetricsEnabled {
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(opts.APIPrefix)
	api.Use(middleware.WithResponseMeta(), middleware.Roles(opts.RoleHeader))

	staff := middleware.RequireRoles(logger, models.RoleAdmin, models.RoleStaff)
	teaching := middleware.RequireRoles(logger, models.RoleAdmin, models.RoleStaff, models.RoleTeacher)
	admin := middleware.RequireRoles(logger, models.RoleAdmin)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(logger, action, resource)
	}

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.GET("/:id", h.Students.Get)
	students.POST("", staff, audit("create", "students"), h.Students.Create)
	students.PUT("/:id", staff, audit("update", "students"), h.Students.Update)
	students.DELETE("/:id", staff, audit("delete", "students"), h.Students.Delete)

	classes := api.Group("/classes")
	classes.GET("", h.Classes.List)
	classes.POST("", staff, audit("create", "classes"), h.Classes.Create)
	classes.POST("/migrate-refs", admin, audit("migrate", "classes"), h.Classes.MigrateRefs)
	classes.GET("/:id", h.Classes.Get)
	classes.PUT("/:id", staff, audit("update", "classes"), h.Classes.Update)
	classes.DELETE("/:id", staff, audit("delete", "classes"), h.Classes.Delete)
	classes.GET("/:id/members", h.Classes.Members)
	classes.GET("/:id/available", h.Classes.Available)
	classes.POST("/:id/members", staff, audit("assign", "classes"), h.Classes.AddMember)
	classes.DELETE("/:id/members/:studentId", staff, audit("unassign", "classes"), h.Classes.RemoveMember)

	attendance := api.Group("/attendance")
	attendance.GET("/days", h.Attendance.Days)
	attendance.GET("/sheet", h.Attendance.Sheet)
	attendance.GET("/stats/:studentId", h.Attendance.Stats)
	attendance.POST("/cycle", teaching, h.Attendance.Cycle)
	attendance.POST("/quick-mark", teaching, audit("quick-mark", "attendance"), h.Attendance.QuickMark)
	attendance.POST("/tuition/toggle", staff, audit("toggle-tuition", "attendance"), h.Attendance.ToggleTuition)

	exports := api.Group("/exports")
	exports.GET("/students", h.Exports.Students)
	exports.GET("/attendance", h.Exports.Attendance)

	backup := api.Group("/backup")
	backup.GET("", admin, h.Backups.Download)
	backup.POST("/restore", admin, audit("restore", "backup"), h.Backups.Restore)
	backup.POST("/archive", admin, audit("archive", "backup"), h.Backups.Archive)
	backup.GET("/archives", admin, h.Backups.Archives)
	backup.GET("/latest", admin, h.Backups.Latest)

	api.GET("/settings", h.Settings.GetSettings)
	api.PUT("/settings", admin, audit("update", "settings"), h.Settings.UpdateSettings)
	api.GET("/profile", h.Settings.GetProfile)
	api.PUT("/profile", audit("update", "profile"), h.Settings.UpdateProfile)

	api.GET("/dashboard", h.Dashboard.Summary)
}
