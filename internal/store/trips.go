package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"dhoni/internal/domain"
	"dhoni/internal/repository"
)

// TripStore routes each operation to the remote table store or the
// local cache depending on the session, translating ids through the
// IDMapper. Failure handling is a single immediate fallback, never a
// retry loop.
type TripStore struct {
	remote   repository.TripRepository
	settings repository.SettingsRepository
	local    LocalTripStore
	idmap    IDMapper
	log      zerolog.Logger
}

// NewTripStore creates a new TripStore.
func NewTripStore(
	remote repository.TripRepository,
	settings repository.SettingsRepository,
	local LocalTripStore,
	idmap IDMapper,
	log zerolog.Logger,
) *TripStore {
	return &TripStore{
		remote:   remote,
		settings: settings,
		local:    local,
		idmap:    idmap,
		log:      log.With().Str("component", "trip_store").Logger(),
	}
}

// GetAll returns the session's trips. Authenticated reads query the
// remote store and substitute reconciled local ids; any remote failure
// falls back to the local cache copy, which may be stale or empty.
func (s *TripStore) GetAll(ctx context.Context, sess Session) ([]domain.Trip, error) {
	if !sess.Authenticated() {
		return s.local.GetAll(ctx, sess.DeviceID)
	}

	trips, err := s.remote.GetAllByUser(ctx, sess.UserID)
	if err != nil {
		s.log.Warn().Err(err).Msg("remote read failed, serving local cache")
		return s.local.GetAll(ctx, sess.DeviceID)
	}

	for i := range trips {
		localID, ok, err := s.idmap.LocalIDFor(ctx, sess.DeviceID, trips[i].ID)
		if err != nil {
			s.log.Warn().Err(err).Str("trip", trips[i].ID).Msg("id map lookup failed, keeping remote id")
			continue
		}
		if ok {
			trips[i].ID = localID
		}
	}
	return trips, nil
}

// GetByID returns one trip, or nil when it does not exist in the
// authoritative store for this session. A record absent remotely may
// still exist as a local-only copy (created offline with the sync gate
// closed, or left behind by a failed-save fallback), so a remote miss
// checks the cache before reporting not-found.
func (s *TripStore) GetByID(ctx context.Context, sess Session, id string) (*domain.Trip, error) {
	if !sess.Authenticated() {
		return s.local.GetByID(ctx, sess.DeviceID, id)
	}

	remoteID, err := s.resolveRemoteID(ctx, sess.DeviceID, id)
	if err != nil {
		return s.local.GetByID(ctx, sess.DeviceID, id)
	}

	trip, err := s.remote.GetByID(ctx, remoteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.local.GetByID(ctx, sess.DeviceID, id)
		}
		s.log.Warn().Err(err).Str("trip", id).Msg("remote read failed, serving local cache")
		return s.local.GetByID(ctx, sess.DeviceID, id)
	}

	trip.ID = id
	return trip, nil
}

// Save upserts the trip. Authenticated saves go to the remote store
// under the reconciled remote id; on success a newly allocated mapping
// is committed and the local cache is NOT written (a mirrored copy
// would go stale). On failure the trip is written to the local cache
// under its original local id and the error is re-raised.
func (s *TripStore) Save(ctx context.Context, sess Session, trip domain.Trip) error {
	if !sess.Authenticated() {
		return s.local.Save(ctx, sess.DeviceID, trip)
	}

	remoteID, existed, err := s.idmap.RemoteIDFor(ctx, sess.DeviceID, trip.ID)
	if err != nil {
		if localErr := s.local.Save(ctx, sess.DeviceID, trip); localErr != nil {
			return localErr
		}
		return fmt.Errorf("%w: %v", ErrSavedLocallyOnly, err)
	}

	remote := trip
	remote.ID = remoteID
	if err := s.remote.Upsert(ctx, sess.UserID, &remote); err != nil {
		s.log.Warn().Err(err).Str("trip", trip.ID).Msg("remote save failed, saving locally")
		if localErr := s.local.Save(ctx, sess.DeviceID, trip); localErr != nil {
			return localErr
		}
		return fmt.Errorf("%w: %v", ErrSavedLocallyOnly, err)
	}

	if !existed {
		if err := s.idmap.Commit(ctx, sess.DeviceID, trip.ID, remoteID); err != nil {
			s.log.Warn().Err(err).Str("trip", trip.ID).Msg("failed to persist id mapping")
		}
	}
	return nil
}

// Delete removes the trip from whichever store holds the authoritative
// copy. A successful remote delete attempts no local cleanup; a failed
// one deletes locally and re-raises.
func (s *TripStore) Delete(ctx context.Context, sess Session, id string) error {
	if !sess.Authenticated() {
		return s.local.Delete(ctx, sess.DeviceID, id)
	}

	remoteID, err := s.resolveRemoteID(ctx, sess.DeviceID, id)
	if err != nil {
		remoteID = id
	}

	if err := s.remote.Delete(ctx, remoteID); err != nil {
		s.log.Warn().Err(err).Str("trip", id).Msg("remote delete failed, deleting locally")
		if localErr := s.local.Delete(ctx, sess.DeviceID, id); localErr != nil {
			return localErr
		}
		return fmt.Errorf("%w: %v", ErrDeletedLocallyOnly, err)
	}
	return nil
}

// Summary folds the session's trips into aggregate totals.
func (s *TripStore) Summary(ctx context.Context, sess Session) (domain.TripSummary, error) {
	trips, err := s.GetAll(ctx, sess)
	if err != nil {
		return domain.TripSummary{}, err
	}
	return domain.Summarize(trips), nil
}

// SyncLocalToRemote pushes every locally cached trip to the remote
// store through the same upsert path as Save. It runs only when the
// account has no remote settings row yet, the marker of a first
// authenticated session; any existing row skips the sync entirely.
// Last mover wins, no merge, no conflict detection.
func (s *TripStore) SyncLocalToRemote(ctx context.Context, sess Session) (int, error) {
	if !sess.Authenticated() {
		return 0, ErrNotAuthenticated
	}

	exists, err := s.settings.Exists(ctx, sess.UserID)
	if err != nil {
		return 0, err
	}
	if exists {
		s.log.Info().Str("user", sess.UserID).Msg("remote data present, skipping bulk sync")
		return 0, nil
	}

	locals, err := s.local.GetAll(ctx, sess.DeviceID)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, trip := range locals {
		remoteID, existed, err := s.idmap.RemoteIDFor(ctx, sess.DeviceID, trip.ID)
		if err != nil {
			return synced, err
		}

		remote := trip
		remote.ID = remoteID
		if err := s.remote.Upsert(ctx, sess.UserID, &remote); err != nil {
			return synced, err
		}

		if !existed {
			if err := s.idmap.Commit(ctx, sess.DeviceID, trip.ID, remoteID); err != nil {
				s.log.Warn().Err(err).Str("trip", trip.ID).Msg("failed to persist id mapping")
			}
		}
		synced++
	}

	s.log.Info().Int("count", synced).Str("user", sess.UserID).Msg("synced local trips to remote")
	return synced, nil
}

// resolveRemoteID maps a local id to its remote id. Ids with no mapping
// are used as-is: records created remotely already carry UUIDs.
func (s *TripStore) resolveRemoteID(ctx context.Context, scope, id string) (string, error) {
	remoteID, existed, err := s.idmap.RemoteIDFor(ctx, scope, id)
	if err != nil {
		return "", err
	}
	if !existed {
		return id, nil
	}
	return remoteID, nil
}
