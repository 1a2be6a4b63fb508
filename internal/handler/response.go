package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dhoni/internal/repository"
	"dhoni/internal/service"
	"dhoni/internal/store"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/store/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrTripNotFound),
		errors.Is(err, service.ErrSaleNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidTripDate),
		errors.Is(err, service.ErrInvalidSaleID),
		errors.Is(err, service.ErrInvalidSubscription),
		errors.Is(err, service.ErrInvalidCoordinates):
		return http.StatusBadRequest

	// Session errors
	case errors.Is(err, store.ErrNotAuthenticated):
		return http.StatusUnauthorized

	// Remote store unavailable, local fallback already taken
	case errors.Is(err, store.ErrSavedLocallyOnly),
		errors.Is(err, store.ErrDeletedLocallyOnly):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
