package service

import "errors"

var (
	// ErrInvalidTripID is returned when a trip id is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidTripDate is returned when a trip has no date.
	ErrInvalidTripDate = errors.New("invalid trip date")

	// ErrInvalidSaleID is returned when a sale id is empty.
	ErrInvalidSaleID = errors.New("invalid sale id")

	// ErrTripNotFound is returned when a trip does not exist in the
	// session's authoritative store.
	ErrTripNotFound = errors.New("trip not found")

	// ErrSaleNotFound is returned when a trip has no sale with the
	// given id.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrInvalidSubscription is returned when a push subscription has
	// no endpoint.
	ErrInvalidSubscription = errors.New("invalid push subscription")

	// ErrInvalidCoordinates is returned when a weather lookup has
	// out-of-range coordinates.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)
