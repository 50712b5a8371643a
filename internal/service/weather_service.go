package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/naineek/trafficdash/internal/domain"
	"github.com/naineek/trafficdash/pkg/utils"
)

const openWeatherBaseURL = "https://api.openweathermap.org"

// Weather conditions shown on the dashboard.
var weatherConditions = []string{"Sunny", "Partly Cloudy", "Rainy", "Thunderstorm", "Foggy"}

var weatherIcons = map[string]string{
	"Sunny":         "☀️",
	"Partly Cloudy": "⛅",
	"Rainy":         "🌧️",
	"Thunderstorm":  "⛈️",
	"Foggy":         "🌫️",
}

// WeatherService handles weather data fetching
type WeatherService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	rng        *rand.Rand
	now        func() time.Time
}

// NewWeatherService creates a new weather service
func NewWeatherService(apiKey string, rng *rand.Rand, now func() time.Time) *WeatherService {
	if now == nil {
		now = time.Now
	}
	return &WeatherService{
		apiKey:  apiKey,
		baseURL: openWeatherBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rng: rng,
		now: now,
	}
}

// OpenWeatherResponse represents the OpenWeatherMap API response
type OpenWeatherResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility int    `json:"visibility"`
	Name       string `json:"name"`
	Sys        struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// GetCurrentWeather fetches current weather for the Newtown map centre
func (s *WeatherService) GetCurrentWeather(ctx context.Context) (domain.Weather, error) {
	// Return mock data if no API key
	if s.apiKey == "" {
		return s.getMockWeather(), nil
	}

	url := fmt.Sprintf(
		"%s/data/2.5/weather?lat=%f&lon=%f&appid=%s&units=metric",
		s.baseURL, domain.NewtownCenterLat, domain.NewtownCenterLon, s.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Weather{}, fmt.Errorf("weather: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// Fallback to mock on network error
		return s.getMockWeather(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.getMockWeather(), nil
	}

	var owResp OpenWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		return domain.Weather{}, fmt.Errorf("weather: failed to decode response: %w", err)
	}

	weather := domain.Weather{
		Temperature: utils.RoundTo(owResp.Main.Temp, 1),
		FeelsLike:   utils.RoundTo(owResp.Main.FeelsLike, 1),
		Humidity:    owResp.Main.Humidity,
		Pressure:    owResp.Main.Pressure,
		WindSpeed:   utils.RoundTo(owResp.Wind.Speed*3.6, 1), // m/s to km/h
		Visibility:  owResp.Visibility,
		City:        owResp.Name,
		Country:     owResp.Sys.Country,
		Timestamp:   s.now(),
		IsMock:      false,
	}

	if len(owResp.Weather) > 0 {
		weather.Condition = conditionFromOpenWeather(owResp.Weather[0].Main)
		weather.Description = owResp.Weather[0].Description
	}
	weather.Icon = weatherIcons[weather.Condition]

	return weather, nil
}

// conditionFromOpenWeather folds OpenWeather groups onto dashboard conditions.
func conditionFromOpenWeather(group string) string {
	switch group {
	case "Clear":
		return "Sunny"
	case "Clouds":
		return "Partly Cloudy"
	case "Rain", "Drizzle":
		return "Rainy"
	case "Thunderstorm":
		return "Thunderstorm"
	default:
		return "Foggy"
	}
}

// getMockWeather returns simulated Newtown weather
func (s *WeatherService) getMockWeather() domain.Weather {
	condition := weatherConditions[s.rng.Intn(len(weatherConditions))]
	temp := utils.RoundTo(utils.FloatBetween(s.rng, 24, 36), 1)

	return domain.Weather{
		Condition:   condition,
		Icon:        weatherIcons[condition],
		Temperature: temp,
		FeelsLike:   temp,
		Humidity:    utils.IntBetween(s.rng, 40, 90),
		Description: condition,
		WindSpeed:   utils.RoundTo(utils.FloatBetween(s.rng, 5, 20), 1),
		Visibility:  8000,
		Pressure:    1008,
		City:        "New Town",
		Country:     "IN",
		Timestamp:   s.now(),
		IsMock:      true,
	}
}

// EnvironmentService estimates the environmental impact of traffic
type EnvironmentService struct {
	rng *rand.Rand
	now func() time.Time
}

// NewEnvironmentService creates a new environment service
func NewEnvironmentService(rng *rand.Rand, now func() time.Time) *EnvironmentService {
	if now == nil {
		now = time.Now
	}
	return &EnvironmentService{rng: rng, now: now}
}

// GetEnvironment returns simulated CO2, noise and AQI readings
func (s *EnvironmentService) GetEnvironment(ctx context.Context) (domain.Environment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Environment{}, err
	}
	return domain.Environment{
		CO2GramsPerKm: utils.RoundTo(utils.FloatBetween(s.rng, 200, 500), 2),
		NoiseDB:       utils.RoundTo(utils.FloatBetween(s.rng, 65, 85), 1),
		AQI:           int(utils.FloatBetween(s.rng, 70, 150)),
		Timestamp:     s.now(),
		IsMock:        true,
	}, nil
}
