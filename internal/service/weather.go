package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"dhoni/internal/domain"
)

// WMO weather interpretation codes used by Open-Meteo.
var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// WeatherService is an HTTP client for the Open-Meteo forecast API.
type WeatherService struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewWeatherService creates a new WeatherService.
func NewWeatherService(baseURL string, log zerolog.Logger) *WeatherService {
	return &WeatherService{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.With().Str("client", "open_meteo").Logger(),
	}
}

// GetCurrent fetches current sea weather for the given coordinates.
func (s *WeatherService) GetCurrent(ctx context.Context, lat, lng float64) (*domain.WeatherConditions, error) {
	if err := validateCoords(lat, lng); err != nil {
		return nil, err
	}

	params := url.Values{
		"latitude":  {fmt.Sprintf("%v", lat)},
		"longitude": {fmt.Sprintf("%v", lng)},
		"current":   {"temperature_2m,relative_humidity_2m,wind_speed_10m,wind_direction_10m,weather_code,visibility,surface_pressure"},
		"timezone":  {"auto"},
	}

	var payload struct {
		Current struct {
			Temperature   float64 `json:"temperature_2m"`
			Humidity      float64 `json:"relative_humidity_2m"`
			WindSpeed     float64 `json:"wind_speed_10m"`
			WindDirection float64 `json:"wind_direction_10m"`
			WeatherCode   int     `json:"weather_code"`
			Visibility    float64 `json:"visibility"`
			Pressure      float64 `json:"surface_pressure"`
		} `json:"current"`
	}
	if err := s.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	cur := payload.Current
	visibilityKm := 0.0
	if cur.Visibility > 0 {
		visibilityKm = math.Round(cur.Visibility / 1000)
	}

	return &domain.WeatherConditions{
		Temperature:       math.Round(cur.Temperature),
		Humidity:          cur.Humidity,
		WindSpeed:         math.Round(cur.WindSpeed*10) / 10,
		WindDirection:     cur.WindDirection,
		WindDirectionText: WindDirection(cur.WindDirection),
		WeatherCode:       cur.WeatherCode,
		Visibility:        visibilityKm,
		Pressure:          math.Round(cur.Pressure),
		Description:       DescribeWeatherCode(cur.WeatherCode),
	}, nil
}

// GetForecast fetches a daily forecast for the given coordinates.
func (s *WeatherService) GetForecast(ctx context.Context, lat, lng float64, days int) ([]domain.WeatherForecast, error) {
	if err := validateCoords(lat, lng); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}

	params := url.Values{
		"latitude":      {fmt.Sprintf("%v", lat)},
		"longitude":     {fmt.Sprintf("%v", lng)},
		"daily":         {"temperature_2m_max,temperature_2m_min,weather_code,wind_speed_10m_max,precipitation_sum"},
		"timezone":      {"auto"},
		"forecast_days": {fmt.Sprintf("%d", days)},
	}

	var payload struct {
		Daily struct {
			Time          []string  `json:"time"`
			MaxTemp       []float64 `json:"temperature_2m_max"`
			MinTemp       []float64 `json:"temperature_2m_min"`
			WeatherCode   []int     `json:"weather_code"`
			WindSpeed     []float64 `json:"wind_speed_10m_max"`
			Precipitation []float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}
	if err := s.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	daily := payload.Daily
	forecasts := make([]domain.WeatherForecast, 0, len(daily.Time))
	for i, date := range daily.Time {
		f := domain.WeatherForecast{Date: date}
		if i < len(daily.MaxTemp) {
			f.MaxTemp = math.Round(daily.MaxTemp[i])
		}
		if i < len(daily.MinTemp) {
			f.MinTemp = math.Round(daily.MinTemp[i])
		}
		if i < len(daily.WeatherCode) {
			f.WeatherCode = daily.WeatherCode[i]
			f.Description = DescribeWeatherCode(daily.WeatherCode[i])
		}
		if i < len(daily.WindSpeed) {
			f.WindSpeed = math.Round(daily.WindSpeed[i]*10) / 10
		}
		if i < len(daily.Precipitation) {
			f.Precipitation = math.Round(daily.Precipitation[i]*10) / 10
		}
		forecasts = append(forecasts, f)
	}

	return forecasts, nil
}

func (s *WeatherService) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather api returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// DescribeWeatherCode maps a WMO weather code to a short description.
func DescribeWeatherCode(code int) string {
	if desc, ok := weatherCodes[code]; ok {
		return desc
	}
	return "Unknown"
}

// WindDirection converts a bearing in degrees to a 16-point compass
// label.
func WindDirection(degrees float64) string {
	index := int(math.Round(degrees/22.5)) % 16
	if index < 0 {
		index += 16
	}
	return compassPoints[index]
}

func validateCoords(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
