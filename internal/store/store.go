// Package store presents one unified trip CRUD interface regardless of
// whether the caller is authenticated, mediating between the remote
// table store and the device-local cache, with the id map bridging the
// two identifier spaces.
package store

import (
	"context"
	"errors"

	"dhoni/internal/domain"
)

var (
	// ErrNotAuthenticated is returned when an operation requires an
	// account session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSavedLocallyOnly is returned when the remote write failed and
	// the trip was written to the local cache instead. Callers surface
	// this as a "saved locally only" condition.
	ErrSavedLocallyOnly = errors.New("remote save failed, trip saved locally only")

	// ErrDeletedLocallyOnly is returned when the remote delete failed
	// and the trip was removed from the local cache instead.
	ErrDeletedLocallyOnly = errors.New("remote delete failed, trip deleted locally only")
)

// Session identifies the caller of a store operation. UserID is empty
// for unauthenticated sessions; DeviceID scopes the local blobs.
type Session struct {
	UserID   string
	DeviceID string
}

// Authenticated reports whether the session has an account.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// LocalTripStore is the device-local fallback trip store.
type LocalTripStore interface {
	GetAll(ctx context.Context, scope string) ([]domain.Trip, error)
	Save(ctx context.Context, scope string, trip domain.Trip) error
	Delete(ctx context.Context, scope, id string) error
	GetByID(ctx context.Context, scope, id string) (*domain.Trip, error)
}

// IDMapper reconciles client-generated trip ids with server UUIDs.
type IDMapper interface {
	RemoteIDFor(ctx context.Context, scope, localID string) (remoteID string, existed bool, err error)
	Commit(ctx context.Context, scope, localID, remoteID string) error
	LocalIDFor(ctx context.Context, scope, remoteID string) (localID string, ok bool, err error)
}
