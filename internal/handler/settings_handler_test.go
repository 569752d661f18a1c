package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

func TestSettingsHandlerMerge(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/api/v1/settings", `{"darkMode":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var settings models.SystemSettings
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &settings))
	assert.True(t, settings.DarkMode)
	assert.Equal(t, "vi", settings.Language)

	rec = srv.do(t, http.MethodPut, "/api/v1/settings", `{"language":"fr"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/settings", nil)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &settings))
	assert.Equal(t, "vi", settings.Language)
}

func TestSettingsHandlerProfile(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/api/v1/profile", `{"bio":"Giáo vụ"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/profile", nil)
	var profile models.UserProfile
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &profile))
	assert.Equal(t, "Giáo vụ", profile.Bio)
	assert.Equal(t, models.RoleAdmin, profile.Role)
}
