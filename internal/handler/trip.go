package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dhoni/internal/domain"
	"dhoni/internal/service"
	"dhoni/internal/store"
)

// TripHandler handles HTTP requests for trip records.
type TripHandler struct {
	trips   *service.TripService
	export  *service.ExportService
	invoice *service.InvoiceService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips *service.TripService, export *service.ExportService, invoice *service.InvoiceService) *TripHandler {
	return &TripHandler{trips: trips, export: export, invoice: invoice}
}

// SaveTripResponse is the response for save operations. Warning is set
// when the remote write failed and the record lives only in the local
// cache.
type SaveTripResponse struct {
	Trip    *domain.Trip `json:"trip"`
	Warning string       `json:"warning,omitempty"`
}

// Save handles POST /v1/trips. Saving an existing id replaces the
// stored record.
func (h *TripHandler) Save(c *gin.Context) {
	var trip domain.Trip
	if err := c.ShouldBindJSON(&trip); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid trip payload"})
		return
	}

	saved, err := h.trips.SaveTrip(c.Request.Context(), sessionFrom(c), trip)
	if err != nil {
		if errors.Is(err, store.ErrSavedLocallyOnly) {
			respondJSON(c, http.StatusAccepted, SaveTripResponse{Trip: saved, Warning: err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SaveTripResponse{Trip: saved})
}

// GetAll handles GET /v1/trips.
func (h *TripHandler) GetAll(c *gin.Context) {
	trips, err := h.trips.GetAllTrips(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	respondJSON(c, http.StatusOK, trips)
}

// Get handles GET /v1/trips/:id.
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.trips.GetTrip(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, trip)
}

// Delete handles DELETE /v1/trips/:id.
func (h *TripHandler) Delete(c *gin.Context) {
	err := h.trips.DeleteTrip(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrDeletedLocallyOnly) {
			respondJSON(c, http.StatusAccepted, gin.H{"warning": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary handles GET /v1/trips/summary.
func (h *TripHandler) Summary(c *gin.Context) {
	summary, err := h.trips.Summary(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, summary)
}

// Sync handles POST /v1/trips/sync: the one-shot bulk push of offline
// trips after first login.
func (h *TripHandler) Sync(c *gin.Context) {
	synced, err := h.trips.SyncLocalToRemote(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"synced": synced})
}

// Export handles GET /v1/trips/export, returning an xlsx attachment.
func (h *TripHandler) Export(c *gin.Context) {
	data, filename, err := h.export.ExportTrips(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// UpdateSalePaymentRequest is the body for payment status updates.
type UpdateSalePaymentRequest struct {
	Paid bool `json:"paid"`
}

// UpdateSalePayment handles PATCH /v1/trips/:id/sales/:saleId/payment.
func (h *TripHandler) UpdateSalePayment(c *gin.Context) {
	var req UpdateSalePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid payment payload"})
		return
	}

	trip, err := h.trips.UpdateSalePayment(c.Request.Context(), sessionFrom(c),
		c.Param("id"), c.Param("saleId"), req.Paid)
	if err != nil {
		if errors.Is(err, store.ErrSavedLocallyOnly) {
			respondJSON(c, http.StatusAccepted, SaveTripResponse{Trip: trip, Warning: err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, SaveTripResponse{Trip: trip})
}

// Invoice handles POST /v1/trips/:id/sales/:saleId/invoice.
func (h *TripHandler) Invoice(c *gin.Context) {
	invoice, err := h.invoice.Generate(c.Request.Context(), sessionFrom(c),
		c.Param("id"), c.Param("saleId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, invoice)
}
