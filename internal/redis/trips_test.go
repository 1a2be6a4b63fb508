package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dhoni/internal/domain"
)

func newBlobClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func cachedTrip(id string) domain.Trip {
	return domain.Trip{
		ID:       id,
		Date:     "2026-08-15",
		Crew:     []string{"Ahmed", "Ibrahim"},
		TripType: domain.TripTypeYellowFinTuna,
		Expenses: domain.Expenses{Fuel: 200, Food: 100, Other: 50},
		FishSales: []domain.Sale{
			{ID: "sale-1", Name: "Market", Weight: 40, RatePrice: 25, TotalAmount: 1000},
		},
		TotalCatch:        40,
		TotalSales:        1000,
		Profit:            650,
		OwnerSharePercent: 20,
	}
}

func TestTripCache_SaveThenReadRoundTrip(t *testing.T) {
	t.Parallel()

	client, _ := newBlobClient(t)
	cache := NewTripCache(client, zerolog.Nop())
	trip := cachedTrip("trip-100-abc")

	if err := cache.Save(context.Background(), "device-1", trip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trips, err := cache.GetAll(context.Background(), "device-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}

	got, err := cache.GetByID(context.Background(), "device-1", trip.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected trip to be readable after save")
	}
	if got.Profit != 650 || len(got.FishSales) != 1 || got.FishSales[0].TotalAmount != 1000 {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestTripCache_SaveReplacesInPlace(t *testing.T) {
	t.Parallel()

	client, _ := newBlobClient(t)
	cache := NewTripCache(client, zerolog.Nop())

	for _, id := range []string{"trip-1", "trip-2", "trip-3"} {
		if err := cache.Save(context.Background(), "device-1", cachedTrip(id)); err != nil {
			t.Fatalf("seed save failed: %v", err)
		}
	}

	updated := cachedTrip("trip-2")
	updated.TotalSales = 2000
	if err := cache.Save(context.Background(), "device-1", updated); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}

	trips, err := cache.GetAll(context.Background(), "device-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 3 {
		t.Fatalf("expected re-save to replace, not append: got %d trips", len(trips))
	}
	if trips[0].ID != "trip-1" || trips[1].ID != "trip-2" || trips[2].ID != "trip-3" {
		t.Errorf("expected positions preserved, got %s %s %s", trips[0].ID, trips[1].ID, trips[2].ID)
	}
	if trips[1].TotalSales != 2000 {
		t.Errorf("expected replacement to win, got %+v", trips[1])
	}
}

func TestTripCache_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	client, _ := newBlobClient(t)
	cache := NewTripCache(client, zerolog.Nop())

	if err := cache.Save(context.Background(), "device-1", cachedTrip("trip-1")); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}
	if err := cache.Save(context.Background(), "device-1", cachedTrip("trip-2")); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := cache.Delete(context.Background(), "device-1", "trip-1"); err != nil {
			t.Fatalf("delete %d failed: %v", i+1, err)
		}
	}

	trips, err := cache.GetAll(context.Background(), "device-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 1 || trips[0].ID != "trip-2" {
		t.Errorf("expected only trip-2 to remain, got %+v", trips)
	}

	// Deleting an id that was never stored leaves the blob unchanged.
	if err := cache.Delete(context.Background(), "device-1", "trip-never-existed"); err != nil {
		t.Fatalf("expected no error deleting a missing trip, got: %v", err)
	}
	if trips, _ = cache.GetAll(context.Background(), "device-1"); len(trips) != 1 {
		t.Errorf("expected remaining trip untouched, have %d", len(trips))
	}
}

func TestTripCache_AbsentBlobIsEmpty(t *testing.T) {
	t.Parallel()

	client, _ := newBlobClient(t)
	cache := NewTripCache(client, zerolog.Nop())

	trips, err := cache.GetAll(context.Background(), "device-1")
	if err != nil {
		t.Fatalf("expected no error for an absent blob, got: %v", err)
	}
	if len(trips) != 0 {
		t.Errorf("expected empty list, got %+v", trips)
	}

	got, err := cache.GetByID(context.Background(), "device-1", "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for an absent blob, got %+v", got)
	}
}

func TestTripCache_CorruptBlobIsDiscarded(t *testing.T) {
	t.Parallel()

	client, mr := newBlobClient(t)
	cache := NewTripCache(client, zerolog.Nop())

	if err := mr.Set("local:trips:device-1", "{not valid json"); err != nil {
		t.Fatalf("seeding corrupt blob failed: %v", err)
	}

	trips, err := cache.GetAll(context.Background(), "device-1")
	if err != nil {
		t.Fatalf("expected corrupt blob swallowed, got: %v", err)
	}
	if len(trips) != 0 {
		t.Errorf("expected empty list from corrupt blob, got %+v", trips)
	}

	// The next save starts a fresh blob over the corrupt one.
	if err := cache.Save(context.Background(), "device-1", cachedTrip("trip-1")); err != nil {
		t.Fatalf("save over corrupt blob failed: %v", err)
	}
	if trips, _ = cache.GetAll(context.Background(), "device-1"); len(trips) != 1 {
		t.Errorf("expected 1 trip after rewrite, got %d", len(trips))
	}
}

func TestTripCache_ScopesAreIsolated(t *testing.T) {
	t.Parallel()

	client, _ := newBlobClient(t)
	cache := NewTripCache(client, zerolog.Nop())

	if err := cache.Save(context.Background(), "device-1", cachedTrip("trip-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other, err := cache.GetAll(context.Background(), "device-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected device-2 blob to be empty, got %+v", other)
	}
}

func TestTripCache_SummarizeAggregates(t *testing.T) {
	t.Parallel()

	client, _ := newBlobClient(t)
	cache := NewTripCache(client, zerolog.Nop())

	empty, err := cache.Summarize(context.Background(), "device-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty != (domain.TripSummary{}) {
		t.Errorf("expected zero summary for empty scope, got %+v", empty)
	}

	t1 := cachedTrip("trip-1")
	t2 := cachedTrip("trip-2")
	t2.Profit = 350
	t2.TotalSales = 700
	t2.TotalCatch = 20
	if err := cache.Save(context.Background(), "device-1", t1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cache.Save(context.Background(), "device-1", t2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := cache.Summarize(context.Background(), "device-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalTrips != 2 || summary.TotalProfit != 1000 || summary.AverageProfit != 500 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.TotalCatch != 60 || summary.TotalSales != 1700 {
		t.Errorf("unexpected totals: %+v", summary)
	}
}
