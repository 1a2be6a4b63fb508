package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"dhoni/internal/domain"
	"dhoni/internal/repository"
	"dhoni/internal/store"
)

// LocalSettingsStore is the device-local boat settings blob.
type LocalSettingsStore interface {
	Get(ctx context.Context, scope string) (*domain.BoatSettings, error)
	Set(ctx context.Context, scope string, settings domain.BoatSettings) error
}

// SettingsService handles the per-account boat settings record with the
// same dual-store routing as trips: remote row when authenticated,
// local blob otherwise or on remote failure.
type SettingsService struct {
	remote repository.SettingsRepository
	local  LocalSettingsStore
	log    zerolog.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(remote repository.SettingsRepository, local LocalSettingsStore, log zerolog.Logger) *SettingsService {
	return &SettingsService{
		remote: remote,
		local:  local,
		log:    log.With().Str("component", "settings_service").Logger(),
	}
}

// Get returns the session's boat settings. A session with no stored
// settings gets the zero record, never an error.
func (s *SettingsService) Get(ctx context.Context, sess store.Session) (domain.BoatSettings, error) {
	if sess.Authenticated() {
		settings, err := s.remote.Get(ctx, sess.UserID)
		if err == nil {
			return *settings, nil
		}
		if err != repository.ErrNotFound {
			s.log.Warn().Err(err).Msg("remote settings read failed, serving local copy")
		}
	}

	settings, err := s.local.Get(ctx, sess.DeviceID)
	if err != nil {
		return domain.BoatSettings{}, err
	}
	if settings == nil {
		return domain.BoatSettings{}, nil
	}
	return *settings, nil
}

// Save persists the boat settings. Last write wins. An authenticated
// save that fails remotely falls back to the local blob and re-raises.
func (s *SettingsService) Save(ctx context.Context, sess store.Session, settings domain.BoatSettings) error {
	if !sess.Authenticated() {
		return s.local.Set(ctx, sess.DeviceID, settings)
	}

	if err := s.remote.Upsert(ctx, sess.UserID, &settings); err != nil {
		s.log.Warn().Err(err).Msg("remote settings save failed, saving locally")
		if localErr := s.local.Set(ctx, sess.DeviceID, settings); localErr != nil {
			return localErr
		}
		return fmt.Errorf("%w: %v", store.ErrSavedLocallyOnly, err)
	}
	return nil
}
