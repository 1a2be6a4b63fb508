package handler

import (
	"github.com/gin-gonic/gin"

	"dhoni/internal/store"
)

const (
	userIDHeader   = "X-User-ID"
	deviceIDHeader = "X-Device-ID"

	// defaultDeviceScope keys the local blobs for callers that send no
	// device id.
	defaultDeviceScope = "local"
)

// sessionFrom builds the store session from request headers. A missing
// user id means an unauthenticated session; every store operation then
// stays on the device-local cache.
func sessionFrom(c *gin.Context) store.Session {
	device := c.GetHeader(deviceIDHeader)
	if device == "" {
		device = defaultDeviceScope
	}
	return store.Session{
		UserID:   c.GetHeader(userIDHeader),
		DeviceID: device,
	}
}
