package repository

import (
	"context"

	"dhoni/internal/domain"
)

// TripRepository defines the remote table store operations for trips.
// Trip ids at this layer are always the server-assigned UUIDs; the
// reconciliation between client ids and server ids happens above.
type TripRepository interface {
	// Upsert inserts the trip row or replaces it by id.
	Upsert(ctx context.Context, userID string, trip *domain.Trip) error

	// GetByID retrieves one trip row.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetAllByUser retrieves all trip rows for a user, newest date first.
	GetAllByUser(ctx context.Context, userID string) ([]domain.Trip, error)

	// Delete removes the trip row by id. Deleting a missing row is not
	// an error.
	Delete(ctx context.Context, id string) error
}

// SettingsRepository defines the remote user_settings operations.
type SettingsRepository interface {
	// Upsert writes the one settings row for a user. Last write wins.
	Upsert(ctx context.Context, userID string, settings *domain.BoatSettings) error

	// Get retrieves a user's settings row.
	Get(ctx context.Context, userID string) (*domain.BoatSettings, error)

	// Exists reports whether the user has a settings row. Used as the
	// first-login gate for bulk local-to-remote sync.
	Exists(ctx context.Context, userID string) (bool, error)
}

// SubscriptionRepository defines the push_subscriptions registry.
type SubscriptionRepository interface {
	// Upsert writes the one subscription row for a user.
	Upsert(ctx context.Context, sub *domain.PushSubscription) error

	// Delete removes a user's subscription row.
	Delete(ctx context.Context, userID string) error

	// GetAll retrieves every registered subscription.
	GetAll(ctx context.Context) ([]domain.PushSubscription, error)
}
