package service

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

type settingsStore interface {
	Settings() models.SystemSettings
	Profile() models.UserProfile
	PutSettings(settings models.SystemSettings)
	PutProfile(profile models.UserProfile)
}

// SettingsService is the only writer of the settings and profile records.
type SettingsService struct {
	store     settingsStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(store settingsStore, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{store: store, validator: validate, logger: logger}
}

// Settings returns the current settings.
func (s *SettingsService) Settings(ctx context.Context) models.SystemSettings {
	return s.store.Settings()
}

// Profile returns the current profile.
func (s *SettingsService) Profile(ctx context.Context) models.UserProfile {
	return s.store.Profile()
}

// UpdateSettings shallow-merges a JSON object onto the current settings: keys present
// in the patch overwrite, absent keys are kept.
func (s *SettingsService) UpdateSettings(ctx context.Context, patch []byte) (models.SystemSettings, error) {
	merged := s.store.Settings()
	if err := mergeObject(patch, &merged); err != nil {
		return models.SystemSettings{}, err
	}
	if err := s.validator.Struct(merged); err != nil {
		return models.SystemSettings{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	s.store.PutSettings(merged)
	s.logger.Info("settings updated")
	return merged, nil
}

// UpdateProfile shallow-merges a JSON object onto the current profile.
func (s *SettingsService) UpdateProfile(ctx context.Context, patch []byte) (models.UserProfile, error) {
	merged := s.store.Profile()
	if err := mergeObject(patch, &merged); err != nil {
		return models.UserProfile{}, err
	}
	if err := s.validator.Struct(merged); err != nil {
		return models.UserProfile{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	s.store.PutProfile(merged)
	s.logger.Info("profile updated")
	return merged, nil
}

// restore merges backup halves without validation; restores are best-effort.
func (s *SettingsService) restore(settings, profile json.RawMessage) (settingsApplied, profileApplied bool) {
	if settings != nil {
		merged := s.store.Settings()
		if mergeObject(settings, &merged) == nil {
			s.store.PutSettings(merged)
			settingsApplied = true
		}
	}
	if profile != nil {
		merged := s.store.Profile()
		if mergeObject(profile, &merged) == nil {
			s.store.PutProfile(merged)
			profileApplied = true
		}
	}
	return settingsApplied, profileApplied
}

func mergeObject(raw []byte, target interface{}) error {
	if !isJSONObject(raw) {
		return appErrors.Clone(appErrors.ErrValidation, "expected a JSON object")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid JSON object")
	}
	return nil
}

func isJSONObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isJSONArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
