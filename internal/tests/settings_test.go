package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"dhoni/internal/domain"
	"dhoni/internal/service"
	"dhoni/internal/store"
)

func newSettingsService(remote *MockSettingsRepository, local *MockLocalSettingsStore) *service.SettingsService {
	return service.NewSettingsService(remote, local, zerolog.Nop())
}

func sampleSettings() domain.BoatSettings {
	return domain.BoatSettings{
		BoatName:      "Dhoni 7",
		OwnerName:     "Hussain",
		ContactNumber: "+960 777 1234",
		BankName:      "Bank of Maldives",
		AccountName:   "Hussain Fishing",
		AccountNumber: "7701-123456-001",
	}
}

func TestSettings_OfflineRoundTrip(t *testing.T) {
	t.Parallel()

	local := NewMockLocalSettingsStore()
	svc := newSettingsService(NewMockSettingsRepository(), local)

	sess := store.Session{DeviceID: "device-1"}
	want := sampleSettings()

	if err := svc.Save(context.Background(), sess, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestSettings_AbsentRecordIsZero(t *testing.T) {
	t.Parallel()

	svc := newSettingsService(NewMockSettingsRepository(), NewMockLocalSettingsStore())

	got, err := svc.Get(context.Background(), store.Session{DeviceID: "device-1"})
	if err != nil {
		t.Fatalf("expected no error for absent settings, got: %v", err)
	}
	if got != (domain.BoatSettings{}) {
		t.Errorf("expected zero settings, got %+v", got)
	}
}

func TestSettings_AuthenticatedSavesRemotely(t *testing.T) {
	t.Parallel()

	remote := NewMockSettingsRepository()
	local := NewMockLocalSettingsStore()
	svc := newSettingsService(remote, local)

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	if err := svc.Save(context.Background(), sess, sampleSettings()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if remote.UpsertCallCount != 1 {
		t.Errorf("expected 1 remote upsert, got %d", remote.UpsertCallCount)
	}
	if local.SetCallCount != 0 {
		t.Errorf("expected no local write on remote success, got %d", local.SetCallCount)
	}
}

func TestSettings_RemoteSaveFailureFallsBackLocally(t *testing.T) {
	t.Parallel()

	remote := NewMockSettingsRepository()
	remote.UpsertError = ErrMockDBDown
	local := NewMockLocalSettingsStore()
	svc := newSettingsService(remote, local)

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	err := svc.Save(context.Background(), sess, sampleSettings())
	if !errors.Is(err, store.ErrSavedLocallyOnly) {
		t.Fatalf("expected ErrSavedLocallyOnly, got: %v", err)
	}
	if local.SetCallCount != 1 {
		t.Errorf("expected local fallback write, got %d", local.SetCallCount)
	}
}

func TestSettings_RemoteReadFailureServesLocalCopy(t *testing.T) {
	t.Parallel()

	remote := NewMockSettingsRepository()
	remote.GetError = ErrMockDBDown
	local := NewMockLocalSettingsStore()
	want := sampleSettings()
	_ = local.Set(context.Background(), "device-1", want)

	svc := newSettingsService(remote, local)

	got, err := svc.Get(context.Background(), store.Session{UserID: "user-1", DeviceID: "device-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected local copy, got %+v", got)
	}
}

func TestSettings_LastWriteWins(t *testing.T) {
	t.Parallel()

	remote := NewMockSettingsRepository()
	svc := newSettingsService(remote, NewMockLocalSettingsStore())

	sess := store.Session{UserID: "user-1", DeviceID: "device-1"}
	first := sampleSettings()
	second := first
	second.BoatName = "Dhoni 9"

	if err := svc.Save(context.Background(), sess, first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := svc.Save(context.Background(), sess, second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	got, err := svc.Get(context.Background(), sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BoatName != "Dhoni 9" {
		t.Errorf("expected last write to win, got %q", got.BoatName)
	}
}
