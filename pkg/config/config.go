package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultUnassignedLabel is the display label stored in classId meaning "no class".
const DefaultUnassignedLabel = "Chưa xếp lớp"

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Snapshot SnapshotConfig
	Backup   BackupConfig
	Seed     SeedConfig
	Metrics  MetricsConfig
	Roles    RolesConfig
	Roster   RosterConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SnapshotConfig controls mirroring the latest backup into Redis.
type SnapshotConfig struct {
	Enabled bool
	Key     string
	TTL     time.Duration
}

// BackupConfig tunes the backup codec and the archive autosave job.
type BackupConfig struct {
	StorageDir        string
	AutosaveInterval  time.Duration
	Retention         time.Duration
	MigrateClassRefs  bool
	SystemVersion     string
	WorkerRetries     int
	WorkerConcurrency int
}

// SeedConfig toggles loading of the built-in mock dataset.
type SeedConfig struct {
	MockData bool
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// RolesConfig configures the advisory role gate.
type RolesConfig struct {
	Header string
}

// RosterConfig holds membership conventions.
type RosterConfig struct {
	UnassignedLabel string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Snapshot = SnapshotConfig{
		Enabled: v.GetBool("ENABLE_SNAPSHOT_MIRROR"),
		Key:     v.GetString("SNAPSHOT_KEY"),
		TTL:     parseDuration(v.GetString("SNAPSHOT_TTL"), 7*24*time.Hour),
	}

	cfg.Backup = BackupConfig{
		StorageDir:        v.GetString("BACKUP_STORAGE_DIR"),
		AutosaveInterval:  parseDuration(v.GetString("BACKUP_AUTOSAVE_INTERVAL"), 0),
		Retention:         parseDuration(v.GetString("BACKUP_RETENTION"), 30*24*time.Hour),
		MigrateClassRefs:  v.GetBool("BACKUP_MIGRATE_CLASS_REFS"),
		SystemVersion:     v.GetString("SYSTEM_VERSION"),
		WorkerRetries:     v.GetInt("BACKUP_WORKER_RETRIES"),
		WorkerConcurrency: v.GetInt("BACKUP_WORKER_CONCURRENCY"),
	}

	cfg.Seed = SeedConfig{MockData: v.GetBool("SEED_MOCK_DATA")}
	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}
	cfg.Roles = RolesConfig{Header: v.GetString("ROLE_HEADER")}

	label := strings.TrimSpace(v.GetString("UNASSIGNED_LABEL"))
	if label == "" {
		label = DefaultUnassignedLabel
	}
	cfg.Roster = RosterConfig{UnassignedLabel: label}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_SNAPSHOT_MIRROR", false)
	v.SetDefault("SNAPSHOT_KEY", "academy:backup:latest")
	v.SetDefault("SNAPSHOT_TTL", "168h")

	v.SetDefault("BACKUP_STORAGE_DIR", "./backups")
	v.SetDefault("BACKUP_AUTOSAVE_INTERVAL", "0")
	v.SetDefault("BACKUP_RETENTION", "720h")
	v.SetDefault("BACKUP_MIGRATE_CLASS_REFS", false)
	v.SetDefault("SYSTEM_VERSION", "1.0.0")
	v.SetDefault("BACKUP_WORKER_RETRIES", 3)
	v.SetDefault("BACKUP_WORKER_CONCURRENCY", 1)

	v.SetDefault("SEED_MOCK_DATA", true)
	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("ROLE_HEADER", "X-User-Role")
	v.SetDefault("UNASSIGNED_LABEL", DefaultUnassignedLabel)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
