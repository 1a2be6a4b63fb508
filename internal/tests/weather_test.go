package tests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"dhoni/internal/service"
)

func newWeatherServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
}

func TestWeatherCurrent_RoundsForDisplay(t *testing.T) {
	t.Parallel()

	server := newWeatherServer(t, `{
		"current": {
			"temperature_2m": 29.4,
			"relative_humidity_2m": 78,
			"wind_speed_10m": 14.46,
			"wind_direction_10m": 225,
			"weather_code": 2,
			"visibility": 9800,
			"surface_pressure": 1009.6
		}
	}`)
	defer server.Close()

	svc := service.NewWeatherService(server.URL, zerolog.Nop())

	conditions, err := svc.GetCurrent(context.Background(), 4.1755, 73.5093)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conditions.Temperature != 29 {
		t.Errorf("expected temperature rounded to 29, got %f", conditions.Temperature)
	}
	if conditions.WindSpeed != 14.5 {
		t.Errorf("expected wind speed 14.5, got %f", conditions.WindSpeed)
	}
	if conditions.Visibility != 10 {
		t.Errorf("expected visibility 10 km, got %f", conditions.Visibility)
	}
	if conditions.Pressure != 1010 {
		t.Errorf("expected pressure 1010, got %f", conditions.Pressure)
	}
	if conditions.Description != "Partly cloudy" {
		t.Errorf("expected WMO code 2 description, got %q", conditions.Description)
	}
	if conditions.WindDirectionText != "SW" {
		t.Errorf("expected 225 degrees labelled SW, got %q", conditions.WindDirectionText)
	}
}

func TestWeatherForecast_MapsDailySeries(t *testing.T) {
	t.Parallel()

	server := newWeatherServer(t, `{
		"daily": {
			"time": ["2026-08-15", "2026-08-16"],
			"temperature_2m_max": [31.2, 30.8],
			"temperature_2m_min": [26.6, 25.9],
			"weather_code": [0, 95],
			"wind_speed_10m_max": [12.34, 28.91],
			"precipitation_sum": [0.0, 14.77]
		}
	}`)
	defer server.Close()

	svc := service.NewWeatherService(server.URL, zerolog.Nop())

	forecast, err := svc.GetForecast(context.Background(), 4.1755, 73.5093, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forecast) != 2 {
		t.Fatalf("expected 2 forecast days, got %d", len(forecast))
	}

	if forecast[0].Date != "2026-08-15" || forecast[0].MaxTemp != 31 || forecast[0].Description != "Clear sky" {
		t.Errorf("unexpected first day: %+v", forecast[0])
	}
	if forecast[1].WindSpeed != 28.9 || forecast[1].Precipitation != 14.8 {
		t.Errorf("unexpected second day roundings: %+v", forecast[1])
	}
	if forecast[1].Description != "Thunderstorm" {
		t.Errorf("expected WMO code 95 description, got %q", forecast[1].Description)
	}
}

func TestWeather_RejectsInvalidCoordinates(t *testing.T) {
	t.Parallel()

	svc := service.NewWeatherService("http://unused.invalid", zerolog.Nop())

	testCases := []struct {
		name     string
		lat, lng float64
	}{
		{"latitude too high", 91, 73},
		{"latitude too low", -91, 73},
		{"longitude too high", 4, 181},
		{"longitude too low", 4, -181},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.GetCurrent(context.Background(), tc.lat, tc.lng)
			if !errors.Is(err, service.ErrInvalidCoordinates) {
				t.Errorf("expected ErrInvalidCoordinates, got: %v", err)
			}
		})
	}
}

func TestWeather_UpstreamErrorSurfaces(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := service.NewWeatherService(server.URL, zerolog.Nop())

	if _, err := svc.GetCurrent(context.Background(), 4.1755, 73.5093); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestWindDirection_CompassPoints(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		degrees float64
		want    string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{225, "SW"},
		{337.5, "NNW"},
		{360, "N"},
	}

	for _, tc := range testCases {
		if got := service.WindDirection(tc.degrees); got != tc.want {
			t.Errorf("WindDirection(%v) = %q, want %q", tc.degrees, got, tc.want)
		}
	}
}

func TestDescribeWeatherCode_UnknownCode(t *testing.T) {
	t.Parallel()

	if got := service.DescribeWeatherCode(42); got != "Unknown" {
		t.Errorf("expected Unknown for unmapped code, got %q", got)
	}
}
