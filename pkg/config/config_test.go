package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "1.0.0", cfg.Backup.SystemVersion)
	assert.Equal(t, time.Duration(0), cfg.Backup.AutosaveInterval)
	assert.Equal(t, 720*time.Hour, cfg.Backup.Retention)
	assert.Equal(t, DefaultUnassignedLabel, cfg.Roster.UnassignedLabel)
	assert.True(t, cfg.Seed.MockData)
	assert.False(t, cfg.Snapshot.Enabled)
	assert.Equal(t, "X-User-Role", cfg.Roles.Header)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	v.Set("BACKUP_AUTOSAVE_INTERVAL", "15m")
	v.Set("SNAPSHOT_TTL", "not-a-duration")
	v.Set("UNASSIGNED_LABEL", "   ")

	cfg := fromViper(v)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.Backup.AutosaveInterval)
	assert.Equal(t, 7*24*time.Hour, cfg.Snapshot.TTL)
	assert.Equal(t, DefaultUnassignedLabel, cfg.Roster.UnassignedLabel)
}
