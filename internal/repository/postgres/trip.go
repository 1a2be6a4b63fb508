package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"

	"dhoni/internal/domain"
	"dhoni/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
//
// The fishing_trips table stores nested objects (crew, expenses, sales,
// hire details, weather) as jsonb and money/weight figures as numeric.
// Numeric columns are scanned as text and coerced, because the hosted
// platform this schema mirrors returns numerics as strings; absent
// values become 0 or an empty collection, never null.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

const tripColumns = `id, date, crew, expenses, fish_sales, trip_type, hire_details,
		weather_conditions, total_catch, total_sales, profit, owner_share_percent,
		profit_per_crew, owner_profit`

// Upsert inserts the trip row or replaces it by id.
func (r *TripRepository) Upsert(ctx context.Context, userID string, trip *domain.Trip) error {
	query := `
		INSERT INTO fishing_trips (id, user_id, date, crew, expenses, fish_sales,
			trip_type, hire_details, weather_conditions, total_catch, total_sales,
			profit, owner_share_percent, profit_per_crew, owner_profit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			date = EXCLUDED.date,
			crew = EXCLUDED.crew,
			expenses = EXCLUDED.expenses,
			fish_sales = EXCLUDED.fish_sales,
			trip_type = EXCLUDED.trip_type,
			hire_details = EXCLUDED.hire_details,
			weather_conditions = EXCLUDED.weather_conditions,
			total_catch = EXCLUDED.total_catch,
			total_sales = EXCLUDED.total_sales,
			profit = EXCLUDED.profit,
			owner_share_percent = EXCLUDED.owner_share_percent,
			profit_per_crew = EXCLUDED.profit_per_crew,
			owner_profit = EXCLUDED.owner_profit
	`

	crew, err := json.Marshal(trip.Crew)
	if err != nil {
		return err
	}
	expenses, err := json.Marshal(trip.Expenses)
	if err != nil {
		return err
	}
	sales, err := json.Marshal(trip.FishSales)
	if err != nil {
		return err
	}
	hire, err := marshalOptional(trip.HireDetails)
	if err != nil {
		return err
	}
	weather, err := marshalOptional(trip.WeatherConditions)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		trip.ID,
		userID,
		trip.Date,
		crew,
		expenses,
		sales,
		trip.TripType,
		hire,
		weather,
		trip.TotalCatch,
		trip.TotalSales,
		trip.Profit,
		trip.OwnerSharePercent,
		trip.ProfitPerCrew,
		trip.OwnerProfit,
	)

	return err
}

// GetByID retrieves one trip row.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM fishing_trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

// GetAllByUser retrieves all trip rows for a user, newest date first.
func (r *TripRepository) GetAllByUser(ctx context.Context, userID string) ([]domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM fishing_trips WHERE user_id = $1 ORDER BY date DESC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *trip)
	}

	return trips, rows.Err()
}

// Delete removes the trip row by id. A missing row is not an error.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM fishing_trips WHERE id = $1`, id)
	return err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (*domain.Trip, error) {
	var (
		trip     domain.Trip
		tripType sql.NullString
		crew     []byte
		expenses []byte
		sales    []byte
		hire     []byte
		weather  []byte

		totalCatch sql.NullString
		totalSales sql.NullString
		profit     sql.NullString
		ownerPct   sql.NullString
		perCrew    sql.NullString
		ownerProf  sql.NullString
	)

	if err := s.Scan(
		&trip.ID,
		&trip.Date,
		&crew,
		&expenses,
		&sales,
		&tripType,
		&hire,
		&weather,
		&totalCatch,
		&totalSales,
		&profit,
		&ownerPct,
		&perCrew,
		&ownerProf,
	); err != nil {
		return nil, err
	}

	trip.TripType = domain.TripType(tripType.String)
	trip.Crew = []string{}
	trip.FishSales = []domain.Sale{}
	if len(crew) > 0 {
		_ = json.Unmarshal(crew, &trip.Crew)
	}
	if len(expenses) > 0 {
		_ = json.Unmarshal(expenses, &trip.Expenses)
	}
	if len(sales) > 0 {
		_ = json.Unmarshal(sales, &trip.FishSales)
	}
	if len(hire) > 0 {
		var h domain.HireDetails
		if json.Unmarshal(hire, &h) == nil {
			trip.HireDetails = &h
		}
	}
	if len(weather) > 0 {
		var w domain.WeatherConditions
		if json.Unmarshal(weather, &w) == nil {
			trip.WeatherConditions = &w
		}
	}

	trip.TotalCatch = coerceNumeric(totalCatch)
	trip.TotalSales = coerceNumeric(totalSales)
	trip.Profit = coerceNumeric(profit)
	trip.OwnerSharePercent = coerceNumeric(ownerPct)
	trip.ProfitPerCrew = coerceNumeric(perCrew)
	trip.OwnerProfit = coerceNumeric(ownerProf)

	return &trip, nil
}

// coerceNumeric parses a numeric column delivered as text. Absent or
// unparsable values become 0.
func coerceNumeric(v sql.NullString) float64 {
	if !v.Valid {
		return 0
	}
	f, err := strconv.ParseFloat(v.String, 64)
	if err != nil {
		return 0
	}
	return f
}

func marshalOptional(v any) ([]byte, error) {
	switch t := v.(type) {
	case *domain.HireDetails:
		if t == nil {
			return nil, nil
		}
	case *domain.WeatherConditions:
		if t == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
