package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dhoni/internal/domain"
)

// SettingsCache is the device-local boat settings blob.
type SettingsCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewSettingsCache creates a new SettingsCache.
func NewSettingsCache(client *redis.Client, log zerolog.Logger) *SettingsCache {
	return &SettingsCache{
		client: client,
		log:    log.With().Str("component", "settings_cache").Logger(),
	}
}

// Get returns the cached settings, or nil when absent or corrupt.
func (c *SettingsCache) Get(ctx context.Context, scope string) (*domain.BoatSettings, error) {
	data, err := c.client.Get(ctx, settingsBlobPrefix+scope).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var settings domain.BoatSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		c.log.Warn().Err(err).Str("scope", scope).Msg("discarding corrupt settings blob")
		return nil, nil
	}
	return &settings, nil
}

// Set overwrites the cached settings. Last write wins.
func (c *SettingsCache) Set(ctx context.Context, scope string, settings domain.BoatSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, settingsBlobPrefix+scope, data, 0).Err()
}
