package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"dhoni/internal/domain"
	"dhoni/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY (remote table store)
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu     sync.RWMutex
	trips  map[string]*domain.Trip
	owners map[string]string

	// Counters for verification
	UpsertCallCount int32
	DeleteCallCount int32

	// Error injection
	UpsertError  error
	GetByIDError error
	GetAllError  error
	DeleteError  error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips:  make(map[string]*domain.Trip),
		owners: make(map[string]string),
	}
}

var _ repository.TripRepository = (*MockTripRepository)(nil)

// AddTrip seeds a remote trip row for test setup.
func (m *MockTripRepository) AddTrip(userID string, trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	m.owners[trip.ID] = userID
}

func (m *MockTripRepository) Upsert(ctx context.Context, userID string, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
	m.owners[trip.ID] = userID
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetAllByUser(ctx context.Context, userID string) ([]domain.Trip, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.Trip, 0)
	for id, t := range m.trips {
		if m.owners[id] == userID {
			result = append(result, *t)
		}
	}
	// Newest date first, matching the real repository's ORDER BY.
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})
	return result, nil
}

func (m *MockTripRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trips, id)
	delete(m.owners, id)
	return nil
}

// GetTrip returns the trip by ID (for test assertions).
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// CountTrips returns the number of remote trip rows.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// ──────────────────────────────────────────────
// MOCK SETTINGS REPOSITORY
// ──────────────────────────────────────────────

// MockSettingsRepository is a mock implementation of SettingsRepository.
type MockSettingsRepository struct {
	mu       sync.RWMutex
	settings map[string]*domain.BoatSettings

	// Counters for verification
	UpsertCallCount int32

	// Error injection
	UpsertError error
	GetError    error
	ExistsError error
}

// NewMockSettingsRepository creates a new mock settings repository.
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{
		settings: make(map[string]*domain.BoatSettings),
	}
}

var _ repository.SettingsRepository = (*MockSettingsRepository)(nil)

// AddRow seeds a settings row for test setup.
func (m *MockSettingsRepository) AddRow(userID string, settings *domain.BoatSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[userID] = settings
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, userID string, settings *domain.BoatSettings) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *settings
	m.settings[userID] = &copy
	return nil
}

func (m *MockSettingsRepository) Get(ctx context.Context, userID string) (*domain.BoatSettings, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	settings, ok := m.settings[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *settings
	return &copy, nil
}

func (m *MockSettingsRepository) Exists(ctx context.Context, userID string) (bool, error) {
	if m.ExistsError != nil {
		return false, m.ExistsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.settings[userID]
	return ok, nil
}

// ──────────────────────────────────────────────
// MOCK SUBSCRIPTION REPOSITORY
// ──────────────────────────────────────────────

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository.
type MockSubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]domain.PushSubscription

	// Error injection
	GetAllError error
}

// NewMockSubscriptionRepository creates a new mock subscription repository.
func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		subs: make(map[string]domain.PushSubscription),
	}
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepository)(nil)

func (m *MockSubscriptionRepository) Upsert(ctx context.Context, sub *domain.PushSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.UserID] = *sub
	return nil
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, userID)
	return nil
}

func (m *MockSubscriptionRepository) GetAll(ctx context.Context) ([]domain.PushSubscription, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.PushSubscription, 0, len(m.subs))
	for _, s := range m.subs {
		result = append(result, s)
	}
	return result, nil
}

// HasSubscription checks if a user's subscription exists.
func (m *MockSubscriptionRepository) HasSubscription(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.subs[userID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK LOCAL TRIP STORE (device-local cache)
// ──────────────────────────────────────────────

// MockLocalTripStore is a mock implementation of LocalTripStore.
type MockLocalTripStore struct {
	mu    sync.RWMutex
	blobs map[string][]domain.Trip

	// Counters for verification
	SaveCallCount   int32
	DeleteCallCount int32

	// Error injection
	SaveError   error
	GetAllError error
}

// NewMockLocalTripStore creates a new mock local trip store.
func NewMockLocalTripStore() *MockLocalTripStore {
	return &MockLocalTripStore{
		blobs: make(map[string][]domain.Trip),
	}
}

// AddTrip seeds a cached trip for test setup.
func (m *MockLocalTripStore) AddTrip(scope string, trip domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[scope] = append(m.blobs[scope], trip)
}

func (m *MockLocalTripStore) GetAll(ctx context.Context, scope string) ([]domain.Trip, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.Trip, len(m.blobs[scope]))
	copy(result, m.blobs[scope])
	return result, nil
}

func (m *MockLocalTripStore) Save(ctx context.Context, scope string, trip domain.Trip) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trips := m.blobs[scope]
	for i := range trips {
		if trips[i].ID == trip.ID {
			trips[i] = trip
			return nil
		}
	}
	m.blobs[scope] = append(trips, trip)
	return nil
}

func (m *MockLocalTripStore) Delete(ctx context.Context, scope, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	trips := m.blobs[scope]
	kept := trips[:0]
	for _, t := range trips {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.blobs[scope] = kept
	return nil
}

func (m *MockLocalTripStore) GetByID(ctx context.Context, scope, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.blobs[scope] {
		if t.ID == id {
			copy := t
			return &copy, nil
		}
	}
	return nil, nil
}

// GetTrip returns the cached trip for assertions.
func (m *MockLocalTripStore) GetTrip(scope, id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.blobs[scope] {
		if t.ID == id {
			copy := t
			return &copy
		}
	}
	return nil
}

// CountTrips returns the number of cached trips in a scope.
func (m *MockLocalTripStore) CountTrips(scope string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs[scope])
}

// ──────────────────────────────────────────────
// MOCK LOCAL SETTINGS STORE
// ──────────────────────────────────────────────

// MockLocalSettingsStore is a mock implementation of LocalSettingsStore.
type MockLocalSettingsStore struct {
	mu    sync.RWMutex
	blobs map[string]*domain.BoatSettings

	// Counters for verification
	SetCallCount int32
}

// NewMockLocalSettingsStore creates a new mock local settings store.
func NewMockLocalSettingsStore() *MockLocalSettingsStore {
	return &MockLocalSettingsStore{
		blobs: make(map[string]*domain.BoatSettings),
	}
}

func (m *MockLocalSettingsStore) Get(ctx context.Context, scope string) (*domain.BoatSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	settings, ok := m.blobs[scope]
	if !ok {
		return nil, nil
	}
	copy := *settings
	return &copy, nil
}

func (m *MockLocalSettingsStore) Set(ctx context.Context, scope string, settings domain.BoatSettings) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[scope] = &settings
	return nil
}

// ──────────────────────────────────────────────
// MOCK ID MAP
// ──────────────────────────────────────────────

// MockIDMap is a mock implementation of IDMapper. It mirrors the real
// store's contract: RemoteIDFor mints a UUID without persisting it, and
// only Commit records the mapping.
type MockIDMap struct {
	mu       sync.RWMutex
	mappings map[string]map[string]string

	// Counters for verification
	CommitCallCount int32

	// Error injection
	RemoteIDForError error
	CommitError      error
	LocalIDForError  error
}

// NewMockIDMap creates a new mock id map.
func NewMockIDMap() *MockIDMap {
	return &MockIDMap{
		mappings: make(map[string]map[string]string),
	}
}

// AddMapping seeds a committed mapping for test setup.
func (m *MockIDMap) AddMapping(scope, localID, remoteID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mappings[scope] == nil {
		m.mappings[scope] = make(map[string]string)
	}
	m.mappings[scope][localID] = remoteID
}

func (m *MockIDMap) RemoteIDFor(ctx context.Context, scope, localID string) (string, bool, error) {
	if m.RemoteIDForError != nil {
		return "", false, m.RemoteIDForError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if remote, ok := m.mappings[scope][localID]; ok {
		return remote, true, nil
	}
	return uuid.New().String(), false, nil
}

func (m *MockIDMap) Commit(ctx context.Context, scope, localID, remoteID string) error {
	atomic.AddInt32(&m.CommitCallCount, 1)
	if m.CommitError != nil {
		return m.CommitError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mappings[scope] == nil {
		m.mappings[scope] = make(map[string]string)
	}
	m.mappings[scope][localID] = remoteID
	return nil
}

func (m *MockIDMap) LocalIDFor(ctx context.Context, scope, remoteID string) (string, bool, error) {
	if m.LocalIDForError != nil {
		return "", false, m.LocalIDForError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for local, remote := range m.mappings[scope] {
		if remote == remoteID {
			return local, true, nil
		}
	}
	return "", false, nil
}

// RemoteIDOf returns the committed remote id for assertions.
func (m *MockIDMap) RemoteIDOf(scope, localID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	remote, ok := m.mappings[scope][localID]
	return remote, ok
}

// CountMappings returns the number of committed mappings in a scope.
func (m *MockIDMap) CountMappings(scope string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.mappings[scope])
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBDown      = errors.New("mock: database unreachable")
	ErrMockCacheDown   = errors.New("mock: cache unreachable")
	ErrMockNetworkFail = errors.New("mock: network failure")
)
