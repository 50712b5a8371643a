package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/naineek/trafficdash/internal/logging"
)

// Config holds process configuration read from the environment.
type Config struct {
	DatabaseURL        string
	OpenWeatherAPIKey  string
	ForecastServiceURL string
	Port               string
	Env                string
	ScaleFactor        float64
	Location           *time.Location
	LogLevel           slog.Level
	SubmitRatePerMin   int
	SubmitBurst        int
}

// LoadDotEnv loads .env files into the environment. A missing file is reported
// to the caller but is not fatal.
func LoadDotEnv(filenames ...string) error {
	return godotenv.Load(filenames...)
}

// Load reads and validates the configuration.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		OpenWeatherAPIKey:  getEnv("OPENWEATHER_API_KEY", ""),
		ForecastServiceURL: getEnv("FORECAST_SERVICE_URL", ""),
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("GO_ENV", "development"),
	}

	scale, err := strconv.ParseFloat(getEnv("PCU_SCALE_FACTOR", "12"), 64)
	if err != nil {
		return nil, fmt.Errorf("config: PCU_SCALE_FACTOR: %w", err)
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("config: PCU_SCALE_FACTOR must be positive, got %v", scale)
	}
	cfg.ScaleFactor = scale

	tz := getEnv("TIMEZONE", "Asia/Kolkata")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("config: TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	level, err := logging.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.SubmitRatePerMin, err = getEnvInt("SUBMIT_RATE_PER_MIN", 30); err != nil {
		return nil, err
	}
	if cfg.SubmitBurst, err = getEnvInt("SUBMIT_BURST", 5); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("config: %s must not be negative, got %d", key, n)
	}
	return n, nil
}
