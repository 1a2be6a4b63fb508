package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"dhoni/internal/domain"
	"dhoni/internal/repository"
)

// SubscriptionRepository is a PostgreSQL implementation of
// repository.SubscriptionRepository. The subscription itself is an
// opaque JSON blob per user.
type SubscriptionRepository struct {
	q Querier
}

// NewSubscriptionRepository creates a new PostgreSQL subscription repository.
func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{q: db}
}

// Upsert writes the one subscription row for a user.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *domain.PushSubscription) error {
	query := `
		INSERT INTO push_subscriptions (user_id, subscription_data, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			subscription_data = EXCLUDED.subscription_data,
			created_at = EXCLUDED.created_at
	`

	data, err := json.Marshal(sub.SubscriptionData)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query, sub.UserID, data, sub.CreatedAt)
	return err
}

// Delete removes a user's subscription row.
func (r *SubscriptionRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE user_id = $1`, userID)
	return err
}

// GetAll retrieves every registered subscription.
func (r *SubscriptionRepository) GetAll(ctx context.Context) ([]domain.PushSubscription, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT user_id, subscription_data, created_at FROM push_subscriptions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.PushSubscription
	for rows.Next() {
		var sub domain.PushSubscription
		var data []byte
		var createdAt sql.NullTime

		if err := rows.Scan(&sub.UserID, &data, &createdAt); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			_ = json.Unmarshal(data, &sub.SubscriptionData)
		}
		if createdAt.Valid {
			sub.CreatedAt = createdAt.Time
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// Ensure SubscriptionRepository implements repository.SubscriptionRepository.
var _ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)
