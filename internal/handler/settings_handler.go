package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/service"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

// SettingsHandler exposes system settings and the admin profile.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings godoc
// @Summary Get system settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.settings.Settings(c.Request.Context()), nil)
}

// UpdateSettings godoc
// @Summary Update system settings
// @Description Shallow merge: only keys present in the body change.
// @Tags Settings
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.settings.UpdateSettings(c.Request.Context(), raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// GetProfile godoc
// @Summary Get the admin profile
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /profile [get]
func (h *SettingsHandler) GetProfile(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.settings.Profile(c.Request.Context()), nil)
}

// UpdateProfile godoc
// @Summary Update the admin profile
// @Tags Settings
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /profile [put]
func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	profile, err := h.settings.UpdateProfile(c.Request.Context(), raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
