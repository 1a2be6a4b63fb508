package domain

// WeatherConditions is a snapshot of sea weather attached to a trip.
// WindDirectionText is the 16-point compass label for WindDirection.
type WeatherConditions struct {
	Temperature       float64 `json:"temperature"`
	Humidity          float64 `json:"humidity"`
	WindSpeed         float64 `json:"windSpeed"`
	WindDirection     float64 `json:"windDirection"`
	WindDirectionText string  `json:"windDirectionText"`
	WeatherCode       int     `json:"weatherCode"`
	Visibility        float64 `json:"visibility"`
	Pressure          float64 `json:"pressure"`
	Description       string  `json:"description"`
}

// WeatherForecast is one day of forecast data.
type WeatherForecast struct {
	Date          string  `json:"date"`
	MaxTemp       float64 `json:"maxTemp"`
	MinTemp       float64 `json:"minTemp"`
	WeatherCode   int     `json:"weatherCode"`
	WindSpeed     float64 `json:"windSpeed"`
	Precipitation float64 `json:"precipitation"`
	Description   string  `json:"description"`
}
