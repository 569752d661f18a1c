package repository

import (
	"sync"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// SettingsStore keeps the session settings and profile records.
type SettingsStore struct {
	mu       sync.RWMutex
	settings models.SystemSettings
	profile  models.UserProfile
}

// NewSettingsStore builds a store initialised with the given records.
func NewSettingsStore(settings models.SystemSettings, profile models.UserProfile) *SettingsStore {
	return &SettingsStore{settings: settings, profile: profile}
}

// Settings returns the current settings.
func (s *SettingsStore) Settings() models.SystemSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Profile returns the current profile.
func (s *SettingsStore) Profile() models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// PutSettings replaces the settings record.
func (s *SettingsStore) PutSettings(settings models.SystemSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// PutProfile replaces the profile record.
func (s *SettingsStore) PutProfile(profile models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
}
