package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dhoni/internal/domain"
	"dhoni/internal/repository"
)

// SettingsRepository is a PostgreSQL implementation of repository.SettingsRepository.
// One row per user, upserted by user id.
type SettingsRepository struct {
	q Querier
}

// NewSettingsRepository creates a new PostgreSQL settings repository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{q: db}
}

// Upsert writes the one settings row for a user. Last write wins.
func (r *SettingsRepository) Upsert(ctx context.Context, userID string, settings *domain.BoatSettings) error {
	query := `
		INSERT INTO user_settings (user_id, boat_name, owner_name, contact_number,
			email, address, registration_number, logo_url, bank_name, account_number,
			account_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			boat_name = EXCLUDED.boat_name,
			owner_name = EXCLUDED.owner_name,
			contact_number = EXCLUDED.contact_number,
			email = EXCLUDED.email,
			address = EXCLUDED.address,
			registration_number = EXCLUDED.registration_number,
			logo_url = EXCLUDED.logo_url,
			bank_name = EXCLUDED.bank_name,
			account_number = EXCLUDED.account_number,
			account_name = EXCLUDED.account_name
	`

	_, err := r.q.ExecContext(ctx, query,
		userID,
		settings.BoatName,
		settings.OwnerName,
		settings.ContactNumber,
		settings.Email,
		settings.Address,
		settings.RegistrationNumber,
		settings.LogoURL,
		settings.BankName,
		settings.AccountNumber,
		settings.AccountName,
	)

	return err
}

// Get retrieves a user's settings row.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (*domain.BoatSettings, error) {
	query := `
		SELECT boat_name, owner_name, contact_number, email, address,
			registration_number, logo_url, bank_name, account_number, account_name
		FROM user_settings WHERE user_id = $1
	`

	var settings domain.BoatSettings
	var logoURL sql.NullString

	err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&settings.BoatName,
		&settings.OwnerName,
		&settings.ContactNumber,
		&settings.Email,
		&settings.Address,
		&settings.RegistrationNumber,
		&logoURL,
		&settings.BankName,
		&settings.AccountNumber,
		&settings.AccountName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	settings.LogoURL = logoURL.String

	return &settings, nil
}

// Exists reports whether the user has a settings row.
func (r *SettingsRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_settings WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Ensure SettingsRepository implements repository.SettingsRepository.
var _ repository.SettingsRepository = (*SettingsRepository)(nil)
