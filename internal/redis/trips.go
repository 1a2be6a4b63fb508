// Package redis holds the device-local persistent blobs: the offline
// trip list, the boat settings record and the trip id-mapping table.
// Each blob is one JSON string value under a fixed key per device
// scope, read-modify-written wholesale on every mutation.
package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dhoni/internal/domain"
)

// Key prefixes. The scope suffix is the device id so that offline data
// from different devices never shares a blob.
const (
	tripBlobPrefix     = "local:trips:"
	settingsBlobPrefix = "local:boat-settings:"
	idMapBlobPrefix    = "local:trip-id-map:"
)

// TripCache is the device-local fallback trip store.
type TripCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewTripCache creates a new TripCache.
func NewTripCache(client *redis.Client, log zerolog.Logger) *TripCache {
	return &TripCache{
		client: client,
		log:    log.With().Str("component", "trip_cache").Logger(),
	}
}

// GetAll returns every cached trip for the scope. An absent or corrupt
// blob yields an empty list rather than an error; a corrupt payload is
// logged and dropped.
func (c *TripCache) GetAll(ctx context.Context, scope string) ([]domain.Trip, error) {
	data, err := c.client.Get(ctx, tripBlobPrefix+scope).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var trips []domain.Trip
	if err := json.Unmarshal(data, &trips); err != nil {
		c.log.Warn().Err(err).Str("scope", scope).Msg("discarding corrupt trip blob")
		return nil, nil
	}
	return trips, nil
}

// Save replaces the trip with the same id in place, or appends it, then
// rewrites the whole blob.
func (c *TripCache) Save(ctx context.Context, scope string, trip domain.Trip) error {
	trips, err := c.GetAll(ctx, scope)
	if err != nil {
		return err
	}

	replaced := false
	for i := range trips {
		if trips[i].ID == trip.ID {
			trips[i] = trip
			replaced = true
			break
		}
	}
	if !replaced {
		trips = append(trips, trip)
	}

	return c.write(ctx, scope, trips)
}

// Delete removes the trip with the given id. Deleting an id that is not
// present rewrites the blob unchanged.
func (c *TripCache) Delete(ctx context.Context, scope, id string) error {
	trips, err := c.GetAll(ctx, scope)
	if err != nil {
		return err
	}

	kept := trips[:0]
	for _, t := range trips {
		if t.ID != id {
			kept = append(kept, t)
		}
	}

	return c.write(ctx, scope, kept)
}

// GetByID returns the cached trip with the given id, or nil.
func (c *TripCache) GetByID(ctx context.Context, scope, id string) (*domain.Trip, error) {
	trips, err := c.GetAll(ctx, scope)
	if err != nil {
		return nil, err
	}

	for i := range trips {
		if trips[i].ID == id {
			return &trips[i], nil
		}
	}
	return nil, nil
}

// Summarize folds the cached collection into aggregate totals. An empty
// collection yields an all-zero summary.
func (c *TripCache) Summarize(ctx context.Context, scope string) (domain.TripSummary, error) {
	trips, err := c.GetAll(ctx, scope)
	if err != nil {
		return domain.TripSummary{}, err
	}
	return domain.Summarize(trips), nil
}

func (c *TripCache) write(ctx context.Context, scope string, trips []domain.Trip) error {
	if trips == nil {
		trips = []domain.Trip{}
	}
	data, err := json.Marshal(trips)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tripBlobPrefix+scope, data, 0).Err()
}
