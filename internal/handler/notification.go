package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dhoni/internal/domain"
	"dhoni/internal/service"
	"dhoni/internal/store"
)

// NotificationHandler handles push subscription management and the
// reminder scan trigger.
type NotificationHandler struct {
	reminders *service.ReminderService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(reminders *service.ReminderService) *NotificationHandler {
	return &NotificationHandler{reminders: reminders}
}

// Subscribe handles POST /v1/notifications/subscriptions.
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	sess := sessionFrom(c)
	if !sess.Authenticated() {
		respondError(c, store.ErrNotAuthenticated)
		return
	}

	var data domain.SubscriptionData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid subscription payload"})
		return
	}

	if err := h.reminders.RegisterSubscription(c.Request.Context(), sess.UserID, data); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unsubscribe handles DELETE /v1/notifications/subscriptions.
func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	sess := sessionFrom(c)
	if !sess.Authenticated() {
		respondError(c, store.ErrNotAuthenticated)
		return
	}

	if err := h.reminders.RemoveSubscription(c.Request.Context(), sess.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Run handles POST /internal/notifications/run. The same scan also
// fires on the cron schedule; this endpoint exists for external
// triggers and manual runs.
func (h *NotificationHandler) Run(c *gin.Context) {
	result, err := h.reminders.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, result)
}
