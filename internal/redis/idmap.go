package redis

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// IDMap is the persistent mapping between client-generated trip ids and
// server-assigned UUIDs. Records created offline get a client-shaped id
// first; the remote store mandates UUIDs, so the first successful remote
// write commits a mapping here.
type IDMap struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewIDMap creates a new IDMap.
func NewIDMap(client *redis.Client, log zerolog.Logger) *IDMap {
	return &IDMap{
		client: client,
		log:    log.With().Str("component", "id_map").Logger(),
	}
}

// RemoteIDFor returns the remote id mapped to localID. When no mapping
// exists it generates a fresh UUID and reports existed=false WITHOUT
// persisting it: committing the mapping is the caller's responsibility,
// done only after the first successful remote write so a failed write
// never leaves a dangling mapping.
func (m *IDMap) RemoteIDFor(ctx context.Context, scope, localID string) (remoteID string, existed bool, err error) {
	mapping, err := m.load(ctx, scope)
	if err != nil {
		return "", false, err
	}

	if remote, ok := mapping[localID]; ok {
		return remote, true, nil
	}
	return uuid.New().String(), false, nil
}

// Commit persists a localID -> remoteID mapping.
func (m *IDMap) Commit(ctx context.Context, scope, localID, remoteID string) error {
	mapping, err := m.load(ctx, scope)
	if err != nil {
		return err
	}

	mapping[localID] = remoteID

	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	return m.client.Set(ctx, idMapBlobPrefix+scope, data, 0).Err()
}

// LocalIDFor reverse-looks-up the local id for a remote id by value
// scan. Records never created through this client have no mapping;
// callers then use the remote id as the local id directly.
func (m *IDMap) LocalIDFor(ctx context.Context, scope, remoteID string) (string, bool, error) {
	mapping, err := m.load(ctx, scope)
	if err != nil {
		return "", false, err
	}

	for local, remote := range mapping {
		if remote == remoteID {
			return local, true, nil
		}
	}
	return "", false, nil
}

func (m *IDMap) load(ctx context.Context, scope string) (map[string]string, error) {
	data, err := m.client.Get(ctx, idMapBlobPrefix+scope).Bytes()
	if err != nil {
		if err == redis.Nil {
			return map[string]string{}, nil
		}
		return nil, err
	}

	mapping := map[string]string{}
	if err := json.Unmarshal(data, &mapping); err != nil {
		m.log.Warn().Err(err).Str("scope", scope).Msg("discarding corrupt id-map blob")
		return map[string]string{}, nil
	}
	return mapping, nil
}
