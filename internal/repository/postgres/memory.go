package postgres

import (
	"context"
	"sort"
	"sync"

	"github.com/naineek/trafficdash/internal/domain"
)

// memoryLimit caps the rows kept by MemoryRepository.
const memoryLimit = 500

// MemoryRepository implements domain.DataRepository without a database. It is
// used when DATABASE_URL is unset or unreachable.
type MemoryRepository struct {
	mu        sync.RWMutex
	weather   []domain.Weather
	forecasts []domain.ForecastRow
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// SaveWeatherData keeps the reading in memory
func (r *MemoryRepository) SaveWeatherData(ctx context.Context, data domain.Weather) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weather = append(r.weather, data)
	if n := len(r.weather); n > memoryLimit {
		r.weather = append([]domain.Weather(nil), r.weather[n-memoryLimit:]...)
	}
	return nil
}

// SaveForecast keeps the rows in memory
func (r *MemoryRepository) SaveForecast(ctx context.Context, site domain.Site, direction domain.Direction, rows []domain.ForecastRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		row.Site, row.Direction = site, direction
		row.Counts = row.Counts.Clone()
		r.forecasts = append(r.forecasts, row)
	}
	if n := len(r.forecasts); n > memoryLimit {
		r.forecasts = append([]domain.ForecastRow(nil), r.forecasts[n-memoryLimit:]...)
	}
	return nil
}

// GetHistoricalForecasts returns rows matching q, newest first
func (r *MemoryRepository) GetHistoricalForecasts(ctx context.Context, q domain.ForecastQuery) ([]domain.ForecastRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.ForecastRow
	for _, row := range r.forecasts {
		if !q.Matches(row) {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].HorizonMinutes < out[j].HorizonMinutes
	})
	return out, nil
}

// Health always returns nil in memory mode
func (r *MemoryRepository) Health(ctx context.Context) error {
	return nil
}
