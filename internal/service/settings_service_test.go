package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

func TestSettingsServiceShallowMerge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	updated, err := env.settingsSv.UpdateSettings(ctx, []byte(`{"darkMode":true,"email":"admin@academy.vn"}`))
	require.NoError(t, err)
	assert.True(t, updated.DarkMode)
	assert.Equal(t, "admin@academy.vn", updated.Email)
	assert.Equal(t, models.DefaultSettings().CenterName, updated.CenterName)
	assert.Equal(t, updated, env.settingsSv.Settings(ctx))
}

func TestSettingsServiceRejectsInvalidPatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.settingsSv.UpdateSettings(ctx, []byte(`{"email":"not-an-email"}`))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = env.settingsSv.UpdateSettings(ctx, []byte(`["array"]`))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	assert.Equal(t, models.DefaultSettings(), env.settingsSv.Settings(ctx))
}

func TestSettingsServiceUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile, err := env.settingsSv.UpdateProfile(ctx, []byte(`{"name":"Cô Lan","role":"TEACHER"}`))
	require.NoError(t, err)
	assert.Equal(t, "Cô Lan", profile.Name)
	assert.Equal(t, models.RoleTeacher, profile.Role)

	_, err = env.settingsSv.UpdateProfile(ctx, []byte(`{"role":"ROOT"}`))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, models.RoleTeacher, env.settingsSv.Profile(ctx).Role)
}
