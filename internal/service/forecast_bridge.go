package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/naineek/trafficdash/internal/domain"
	"github.com/naineek/trafficdash/pkg/utils"
)

// ErrForecastUnavailable means the external forecast service could not be reached.
var ErrForecastUnavailable = errors.New("forecast service unavailable")

// ForecastRequest is sent to the external forecast service
type ForecastRequest struct {
	Location        domain.Site      `json:"location"`
	Direction       domain.Direction `json:"direction"`
	Start           time.Time        `json:"start"`
	HorizonsMinutes []int            `json:"horizons_minutes"`
	Modes           []domain.Mode    `json:"modes"`
}

// ForecastResponse is the external service reply. Counts is parallel to the
// requested horizons.
type ForecastResponse struct {
	Counts []domain.ModeCount `json:"counts"`
}

// ForecastBridge handles communication with the external forecast model
type ForecastBridge struct {
	serviceURL string
	httpClient *http.Client
}

// NewForecastBridge creates a new forecast bridge. An empty URL disables it.
func NewForecastBridge(serviceURL string) *ForecastBridge {
	return &ForecastBridge{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enabled reports whether a service URL is configured.
func (b *ForecastBridge) Enabled() bool {
	return b != nil && b.serviceURL != ""
}

// Forecast asks the external service for per-mode counts. Transport failures
// and non-200 replies return ErrForecastUnavailable so the caller can fall
// back to simulated counts.
func (b *ForecastBridge) Forecast(ctx context.Context, req ForecastRequest) ([]domain.ModeCount, error) {
	if !b.Enabled() {
		return nil, ErrForecastUnavailable
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("forecast_bridge: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/forecast", b.serviceURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("forecast_bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("forecast_bridge: %w: %v", ErrForecastUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast_bridge: %w: status %d", ErrForecastUnavailable, resp.StatusCode)
	}

	var out ForecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("forecast_bridge: failed to decode response: %w", err)
	}
	if len(out.Counts) != len(req.HorizonsMinutes) {
		return nil, fmt.Errorf("forecast_bridge: got %d count rows for %d horizons", len(out.Counts), len(req.HorizonsMinutes))
	}

	return out.Counts, nil
}

// Health checks forecast service connectivity
func (b *ForecastBridge) Health(ctx context.Context) error {
	if !b.Enabled() {
		return ErrForecastUnavailable
	}

	url := fmt.Sprintf("%s/health", b.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("forecast_bridge: failed to create health request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("forecast_bridge: health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("forecast_bridge: health check returned status %d", resp.StatusCode)
	}

	return nil
}

// forecastRanges are the half-open ranges simulated counts are drawn from.
var forecastRanges = map[domain.Mode][2]int{
	domain.ModeCar:        {15, 60},
	domain.ModeTwoWheeler: {13, 50},
	domain.ModeBus:        {5, 20},
	domain.ModeTruck:      {1, 5},
	domain.ModeBicycle:    {2, 13},
	domain.ModePedestrian: {3, 15},
	domain.ModeAuto:       {5, 20},
	domain.ModeOthers:     {2, 10},
}

// simulateForecastCounts returns n rows of random counts, one column per mode.
func simulateForecastCounts(rng *rand.Rand, n int) []domain.ModeCount {
	rows := make([]domain.ModeCount, n)
	for i := range rows {
		rows[i] = make(domain.ModeCount, len(domain.Modes))
	}
	for _, m := range domain.Modes {
		r := forecastRanges[m]
		for i := range rows {
			rows[i][m] = utils.IntBetween(rng, r[0], r[1])
		}
	}
	return rows
}
