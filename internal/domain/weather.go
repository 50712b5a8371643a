package domain

import "time"

// Weather represents weather data for a location
type Weather struct {
	Condition   string    `json:"condition"`
	Icon        string    `json:"icon"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	Description string    `json:"description"`
	WindSpeed   float64   `json:"wind_speed_kmh"`
	Visibility  int       `json:"visibility"`
	Pressure    int       `json:"pressure"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Timestamp   time.Time `json:"timestamp"`
	IsMock      bool      `json:"is_mock"`
}

// Environment is the estimated environmental impact of current traffic.
type Environment struct {
	CO2GramsPerKm float64   `json:"co2_g_per_km"`
	NoiseDB       float64   `json:"noise_db"`
	AQI           int       `json:"aqi"`
	Timestamp     time.Time `json:"timestamp"`
	IsMock        bool      `json:"is_mock"`
}
