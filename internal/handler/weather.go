package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dhoni/internal/service"
)

// WeatherHandler handles weather lookups for the trip form.
type WeatherHandler struct {
	weather *service.WeatherService
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(weather *service.WeatherService) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

// Current handles GET /v1/weather/current?lat=&lng=.
func (h *WeatherHandler) Current(c *gin.Context) {
	lat, lng, ok := coords(c)
	if !ok {
		return
	}

	conditions, err := h.weather.GetCurrent(c.Request.Context(), lat, lng)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, conditions)
}

// Forecast handles GET /v1/weather/forecast?lat=&lng=&days=.
func (h *WeatherHandler) Forecast(c *gin.Context) {
	lat, lng, ok := coords(c)
	if !ok {
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	forecast, err := h.weather.GetForecast(c.Request.Context(), lat, lng, days)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, forecast)
}

func coords(c *gin.Context) (lat, lng float64, ok bool) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "lat and lng query parameters are required"})
		return 0, 0, false
	}
	return lat, lng, true
}
