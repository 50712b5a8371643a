package domain

import (
	"context"
	"time"
)

// DashboardData aggregates everything the monitoring page renders
type DashboardData struct {
	Site        Site               `json:"location"`
	Direction   Direction          `json:"direction"`
	Alert       Alert              `json:"alert"`
	Traffic     TrafficReport      `json:"traffic"`
	Forecast    Forecast           `json:"forecast"`
	Weather     Weather            `json:"weather"`
	Environment Environment        `json:"environment"`
	Markers     []CongestionMarker `json:"markers"`
	Incidents   []Incident         `json:"incidents"`
	Timestamp   time.Time          `json:"timestamp"`
	LocalTime   string             `json:"local_time"`
}

// ForecastQuery selects stored forecast rows. Empty Site or Direction match any.
type ForecastQuery struct {
	From      time.Time
	To        time.Time
	Site      Site
	Direction Direction
}

// Matches reports whether row falls inside the query.
func (q ForecastQuery) Matches(row ForecastRow) bool {
	if row.CreatedAt.Before(q.From) || row.CreatedAt.After(q.To) {
		return false
	}
	if q.Site != "" && row.Site != q.Site {
		return false
	}
	return q.Direction == "" || row.Direction == q.Direction
}

// DataRepository defines the interface for data persistence.
// Incidents and feedback live in memory only.
type DataRepository interface {
	// SaveWeatherData persists weather data
	SaveWeatherData(ctx context.Context, data Weather) error

	// SaveForecast persists the rows of a forecast table
	SaveForecast(ctx context.Context, site Site, direction Direction, rows []ForecastRow) error

	// GetHistoricalForecasts retrieves forecast rows matching q, newest first
	GetHistoricalForecasts(ctx context.Context, q ForecastQuery) ([]ForecastRow, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}
