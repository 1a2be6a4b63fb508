package service

import (
	"context"

	"github.com/rs/zerolog"

	"dhoni/internal/domain"
	"dhoni/internal/profit"
	"dhoni/internal/store"
)

// TripService handles trip record operations. Derived fields (sale
// totals and the profit snapshot) are computed here once per save; the
// store layers below persist what they are given.
type TripService struct {
	trips *store.TripStore
	log   zerolog.Logger
}

// NewTripService creates a new TripService.
func NewTripService(trips *store.TripStore, log zerolog.Logger) *TripService {
	return &TripService{
		trips: trips,
		log:   log.With().Str("component", "trip_service").Logger(),
	}
}

// SaveTrip validates the trip, fills generated ids and sale totals,
// snapshots the profit figures and persists through the trip store.
// The saved trip is returned with all derived fields populated.
func (s *TripService) SaveTrip(ctx context.Context, sess store.Session, trip domain.Trip) (*domain.Trip, error) {
	if trip.Date == "" {
		return nil, ErrInvalidTripDate
	}
	if trip.ID == "" {
		trip.ID = profit.NewTripID()
	}

	for i := range trip.FishSales {
		normalizeSale(&trip.FishSales[i])
	}

	// Snapshot at save time. TotalCatch and TotalSales stay as given:
	// the caller may have overridden them, and the data layer does not
	// enforce agreement with the sale list.
	trip.Profit = profit.Compute(trip.TotalSales, trip.Expenses, trip.HirePrice())
	dist := profit.Distribute(trip.Profit, len(trip.Crew), trip.OwnerSharePercent)
	trip.OwnerProfit = dist.OwnerProfit
	trip.ProfitPerCrew = dist.ProfitPerCrew

	if err := s.trips.Save(ctx, sess, trip); err != nil {
		return &trip, err
	}
	return &trip, nil
}

// GetTrip retrieves one trip.
func (s *TripService) GetTrip(ctx context.Context, sess store.Session, id string) (*domain.Trip, error) {
	if id == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.trips.GetByID(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}
	return trip, nil
}

// GetAllTrips retrieves the session's trips, newest date first.
func (s *TripService) GetAllTrips(ctx context.Context, sess store.Session) ([]domain.Trip, error) {
	return s.trips.GetAll(ctx, sess)
}

// DeleteTrip removes a trip. Deleting an already-absent local trip is a
// no-op.
func (s *TripService) DeleteTrip(ctx context.Context, sess store.Session, id string) error {
	if id == "" {
		return ErrInvalidTripID
	}
	return s.trips.Delete(ctx, sess, id)
}

// Summary folds the session's trips into aggregate totals.
func (s *TripService) Summary(ctx context.Context, sess store.Session) (domain.TripSummary, error) {
	return s.trips.Summary(ctx, sess)
}

// SyncLocalToRemote pushes offline trips to the remote store on first
// login. Returns the number of trips pushed; zero when the gate skips.
func (s *TripService) SyncLocalToRemote(ctx context.Context, sess store.Session) (int, error) {
	return s.trips.SyncLocalToRemote(ctx, sess)
}

// UpdateSalePayment flips the paid flag on one sale and re-saves the
// trip through the normal save path.
func (s *TripService) UpdateSalePayment(ctx context.Context, sess store.Session, tripID, saleID string, paid bool) (*domain.Trip, error) {
	if saleID == "" {
		return nil, ErrInvalidSaleID
	}

	trip, err := s.GetTrip(ctx, sess, tripID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range trip.FishSales {
		if trip.FishSales[i].ID == saleID {
			trip.FishSales[i].Paid = paid
			found = true
			break
		}
	}
	if !found {
		return nil, ErrSaleNotFound
	}

	return s.SaveTrip(ctx, sess, *trip)
}

// normalizeSale fills the generated id and the creation-time total for
// a new sale. An existing TotalAmount is left alone: it was fixed when
// the sale was first recorded.
func normalizeSale(sale *domain.Sale) {
	if sale.ID == "" {
		sale.ID = profit.NewSaleID()
	}
	if sale.TotalAmount == 0 {
		sale.TotalAmount = sale.Weight * sale.RatePrice
	}
}
