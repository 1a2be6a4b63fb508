package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"dhoni/internal/domain"
	"dhoni/internal/store"
)

func newTripStore(remote *MockTripRepository, settings *MockSettingsRepository, local *MockLocalTripStore, idmap *MockIDMap) *store.TripStore {
	return store.NewTripStore(remote, settings, local, idmap, zerolog.Nop())
}

func sampleTrip(id string) domain.Trip {
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

// ──────────────────────────────────────────────
// 1. OFFLINE (UNAUTHENTICATED) SESSIONS
// ──────────────────────────────────────────────

func TestOfflineSave_RoundTrip(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	local := NewMockLocalTripStore()
	s := newTripStore(remote, NewMockSettingsRepository(), local, NewMockIDMap())

	sess := store.Session{DeviceID: "device-1"}
	trip := sampleTrip("trip-100-abc")

	if err := s.Save(context.Background(), sess, trip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetByID(context.Background(), sess, trip.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected trip to be readable after save")
	}
	if got.ID != trip.ID || got.Profit != trip.Profit || len(got.FishSales) != 1 {
		t.Errorf("round trip mismatch: got %+v", got)
	}

	// Offline saves must never touch the remote store.
	if remote.UpsertCallCount != 0 {
		t.Errorf("expected no remote upserts, got %d", remote.UpsertCallCount)
	}
}

func TestOfflineSave_SameIDReplacesRecord(t *testing.T) {
	t.Parallel()

	local := NewMockLocalTripStore()
	s := newTripStore(NewMockTripRepository(), NewMockSettingsRepository(), local, NewMockIDMap())

	sess := store.Session{DeviceID: "device-1"}
	trip := sampleTrip("trip-100-abc")

	if err := s.Save(context.Background(), sess, trip); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	trip.TotalSales = 2000
	if err := s.Save(context.Background(), sess, trip); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	if local.CountTrips("device-1") != 1 {
		t.Errorf("expected 1 cached trip, got %d", local.CountTrips("device-1"))
	}
	if got := local.GetTrip("device-1", trip.ID); got == nil || got.TotalSales != 2000 {
		t.Errorf("expected replacement to win, got %+v", got)
	}
}

func TestOfflineDelete_MissingIDIsNoop(t *testing.T) {
	t.Parallel()

	local := NewMockLocalTripStore()
	local.AddTrip("device-1", sampleTrip("trip-100-abc"))
	s := newTripStore(NewMockTripRepository(), NewMockSettingsRepository(), local, NewMockIDMap())

	sess := store.Session{DeviceID: "device-1"}
	if err := s.Delete(context.Background(), sess, "trip-does-not-exist"); err != nil {
		t.Fatalf("expected no error deleting a missing trip, got: %v", err)
	}
	if local.CountTrips("device-1") != 1 {
		t.Errorf("expected existing trip untouched, have %d trips", local.CountTrips("device-1"))
	}
}

func TestOfflineSummary_EmptyCollectionIsZero(t *testing.T) {
	t.Parallel()

	s := newTripStore(NewMockTripRepository(), NewMockSettingsRepository(), NewMockLocalTripStore(), NewMockIDMap())

	summary, err := s.Summary(context.Background(), store.Session{DeviceID: "device-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != (domain.TripSummary{}) {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestOfflineSummary_Aggregates(t *testing.T) {
	t.Parallel()

	local := NewMockLocalTripStore()
	t1 := sampleTrip("trip-1")
	t2 := sampleTrip("trip-2")
	t2.Profit = 350
	t2.TotalSales = 700
	t2.TotalCatch = 20
	local.AddTrip("device-1", t1)
	local.AddTrip("device-1", t2)

	s := newTripStore(NewMockTripRepository(), NewMockSettingsRepository(), local, NewMockIDMap())

	summary, err := s.Summary(context.Background(), store.Session{DeviceID: "device-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalTrips != 2 {
		t.Errorf("expected 2 trips, got %d", summary.TotalTrips)
	}
	if summary.TotalProfit != 1000 {
		t.Errorf("expected total profit 1000, got %f", summary.TotalProfit)
	}
	if summary.AverageProfit != 500 {
		t.Errorf("expected average profit 500, got %f", summary.AverageProfit)
	}
	if summary.TotalCatch != 60 || summary.TotalSales != 1700 {
		t.Errorf("unexpected totals: %+v", summary)
	}
}

// ──────────────────────────────────────────────
// 2. AUTHENTICATED SESSIONS AND ID RECONCILIATION
// ──────────────────────────────────────────────

func TestRemoteSave_StoresUnderServerIDAndCommitsMapping(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	local := NewMockLocalTripStore()
	idmap := NewMockIDMap()
	s := newTripStore(remote, NewMockSettingsRepository(), local, idmap)

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	trip := sampleTrip("trip-100-abc")

	if err := s.Save(context.Background(), sess, trip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	remoteID, ok := idmap.RemoteIDOf("device-1", trip.ID)
	if !ok {
		t.Fatal("expected an id mapping to be committed after remote save")
	}
	if remoteID == trip.ID {
		t.Error("expected remote id to differ from the client id")
	}
	if remote.GetTrip(remoteID) == nil {
		t.Errorf("expected remote row under %s", remoteID)
	}
	if remote.GetTrip(trip.ID) != nil {
		t.Error("remote store must never see the client id")
	}

	// A successful remote save leaves the local cache alone.
	if local.CountTrips("device-1") != 0 {
		t.Errorf("expected no local mirror, got %d cached trips", local.CountTrips("device-1"))
	}
}

func TestRemoteSave_SecondSaveReusesMapping(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	idmap := NewMockIDMap()
	s := newTripStore(remote, NewMockSettingsRepository(), NewMockLocalTripStore(), idmap)

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	trip := sampleTrip("trip-100-abc")

	if err := s.Save(context.Background(), sess, trip); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	firstRemoteID, _ := idmap.RemoteIDOf("device-1", trip.ID)

	trip.TotalSales = 2000
	if err := s.Save(context.Background(), sess, trip); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	if remote.CountTrips() != 1 {
		t.Errorf("expected 1 remote row after re-save, got %d", remote.CountTrips())
	}
	if got := remote.GetTrip(firstRemoteID); got == nil || got.TotalSales != 2000 {
		t.Errorf("expected updated row under the original remote id, got %+v", got)
	}
	if idmap.CommitCallCount != 1 {
		t.Errorf("expected exactly 1 mapping commit, got %d", idmap.CommitCallCount)
	}
}

func TestRemoteSave_FailureFallsBackToLocal(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	remote.UpsertError = ErrMockDBDown
	local := NewMockLocalTripStore()
	idmap := NewMockIDMap()
	s := newTripStore(remote, NewMockSettingsRepository(), local, idmap)

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	trip := sampleTrip("trip-100-abc")

	err := s.Save(context.Background(), sess, trip)
	if !errors.Is(err, store.ErrSavedLocallyOnly) {
		t.Fatalf("expected ErrSavedLocallyOnly, got: %v", err)
	}

	// The fallback copy keeps the original client id.
	if got := local.GetTrip("device-1", trip.ID); got == nil {
		t.Error("expected trip in local cache under its client id")
	}

	// A failed write must not leave a dangling mapping.
	if idmap.CountMappings("device-1") != 0 {
		t.Errorf("expected no committed mappings, got %d", idmap.CountMappings("device-1"))
	}
}

func TestRemoteRead_FailureServesLocalCache(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	remote.GetAllError = ErrMockDBDown
	local := NewMockLocalTripStore()
	local.AddTrip("device-1", sampleTrip("trip-100-abc"))
	s := newTripStore(remote, NewMockSettingsRepository(), local, NewMockIDMap())

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	trips, err := s.GetAll(context.Background(), sess)
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if len(trips) != 1 || trips[0].ID != "trip-100-abc" {
		t.Errorf("expected the cached trip, got %+v", trips)
	}
}

func TestRemoteRead_SubstitutesClientIDs(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	idmap := NewMockIDMap()

	serverTrip := sampleTrip("3f8e9a10-0000-0000-0000-000000000001")
	remote.AddTrip("user-1", &serverTrip)
	idmap.AddMapping("device-1", "trip-100-abc", serverTrip.ID)

	s := newTripStore(remote, NewMockSettingsRepository(), NewMockLocalTripStore(), idmap)

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	trips, err := s.GetAll(context.Background(), sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}
	if trips[0].ID != "trip-100-abc" {
		t.Errorf("expected client id substituted, got %s", trips[0].ID)
	}

	// GetByID resolves the same way and echoes the requested id.
	got, err := s.GetByID(context.Background(), sess, "trip-100-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != "trip-100-abc" {
		t.Errorf("expected trip under client id, got %+v", got)
	}
}

func TestRemoteRead_IDMapLookupFailureKeepsRemoteIDs(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	serverTrip := sampleTrip("3f8e9a10-0000-0000-0000-000000000003")
	remote.AddTrip("user-1", &serverTrip)
	idmap := NewMockIDMap()
	idmap.LocalIDForError = ErrMockCacheDown

	s := newTripStore(remote, NewMockSettingsRepository(), NewMockLocalTripStore(), idmap)

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	trips, err := s.GetAll(context.Background(), sess)
	if err != nil {
		t.Fatalf("expected the read to survive an id map failure, got: %v", err)
	}
	if len(trips) != 1 || trips[0].ID != serverTrip.ID {
		t.Errorf("expected the row under its remote id, got %+v", trips)
	}
}

func TestRemoteRead_LocalOnlyCopyReachable(t *testing.T) {
	t.Parallel()

	local := NewMockLocalTripStore()
	local.AddTrip("device-1", sampleTrip("trip-100-abc"))
	s := newTripStore(NewMockTripRepository(), NewMockSettingsRepository(), local, NewMockIDMap())

	// Authenticated, but the record was created offline and the remote
	// store has never seen it: the cache copy must still be readable.
	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	got, err := s.GetByID(context.Background(), sess, "trip-100-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != "trip-100-abc" {
		t.Errorf("expected the local-only trip, got %+v", got)
	}

	// An id in neither store is still a miss.
	missing, err := s.GetByID(context.Background(), sess, "trip-does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for an unknown id, got %+v", missing)
	}
}

func TestRemoteRead_UnmappedIDUsedAsIs(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	serverTrip := sampleTrip("3f8e9a10-0000-0000-0000-000000000002")
	remote.AddTrip("user-1", &serverTrip)

	s := newTripStore(remote, NewMockSettingsRepository(), NewMockLocalTripStore(), NewMockIDMap())

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	got, err := s.GetByID(context.Background(), sess, serverTrip.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != serverTrip.ID {
		t.Errorf("expected the server-origin trip, got %+v", got)
	}
}

func TestRemoteDelete_FailureDeletesLocally(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	remote.DeleteError = ErrMockDBDown
	local := NewMockLocalTripStore()
	local.AddTrip("device-1", sampleTrip("trip-100-abc"))
	s := newTripStore(remote, NewMockSettingsRepository(), local, NewMockIDMap())

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	err := s.Delete(context.Background(), sess, "trip-100-abc")
	if !errors.Is(err, store.ErrDeletedLocallyOnly) {
		t.Fatalf("expected ErrDeletedLocallyOnly, got: %v", err)
	}
	if local.CountTrips("device-1") != 0 {
		t.Errorf("expected local copy removed, have %d trips", local.CountTrips("device-1"))
	}
}

// ──────────────────────────────────────────────
// 3. FIRST-LOGIN BULK SYNC
// ──────────────────────────────────────────────

func TestSync_RequiresAuthentication(t *testing.T) {
	t.Parallel()

	s := newTripStore(NewMockTripRepository(), NewMockSettingsRepository(), NewMockLocalTripStore(), NewMockIDMap())

	_, err := s.SyncLocalToRemote(context.Background(), store.Session{DeviceID: "device-1"})
	if !errors.Is(err, store.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got: %v", err)
	}
}

func TestSync_SkipsWhenRemoteDataPresent(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	settings := NewMockSettingsRepository()
	settings.AddRow("user-1", &domain.BoatSettings{BoatName: "Dhoni 7"})
	local := NewMockLocalTripStore()
	local.AddTrip("device-1", sampleTrip("trip-100-abc"))

	s := newTripStore(remote, settings, local, NewMockIDMap())

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	synced, err := s.SyncLocalToRemote(context.Background(), sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synced != 0 {
		t.Errorf("expected 0 trips synced past the gate, got %d", synced)
	}
	if remote.UpsertCallCount != 0 {
		t.Errorf("expected no remote writes, got %d", remote.UpsertCallCount)
	}
}

func TestSync_PushesAllLocalTrips(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	local := NewMockLocalTripStore()
	local.AddTrip("device-1", sampleTrip("trip-1"))
	local.AddTrip("device-1", sampleTrip("trip-2"))
	local.AddTrip("device-1", sampleTrip("trip-3"))
	idmap := NewMockIDMap()

	s := newTripStore(remote, NewMockSettingsRepository(), local, idmap)

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	synced, err := s.SyncLocalToRemote(context.Background(), sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synced != 3 {
		t.Errorf("expected 3 trips synced, got %d", synced)
	}
	if remote.CountTrips() != 3 {
		t.Errorf("expected 3 remote rows, got %d", remote.CountTrips())
	}
	if idmap.CountMappings("device-1") != 3 {
		t.Errorf("expected 3 committed mappings, got %d", idmap.CountMappings("device-1"))
	}
}

func TestSync_StopsAtFirstRemoteFailure(t *testing.T) {
	t.Parallel()

	remote := NewMockTripRepository()
	remote.UpsertError = ErrMockDBDown
	local := NewMockLocalTripStore()
	local.AddTrip("device-1", sampleTrip("trip-1"))
	local.AddTrip("device-1", sampleTrip("trip-2"))

	s := newTripStore(remote, NewMockSettingsRepository(), local, NewMockIDMap())

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	synced, err := s.SyncLocalToRemote(context.Background(), sess)
	if err == nil {
		t.Fatal("expected sync to surface the remote failure")
	}
	if synced != 0 {
		t.Errorf("expected 0 trips reported synced, got %d", synced)
	}
}
