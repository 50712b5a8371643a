package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naineek/trafficdash/internal/domain"
)

// Schema creates the tables used by PostgresRepository.
const Schema = `
CREATE TABLE IF NOT EXISTS weather_data (
	id          BIGSERIAL PRIMARY KEY,
	condition   TEXT NOT NULL,
	temperature DOUBLE PRECISION NOT NULL,
	feels_like  DOUBLE PRECISION NOT NULL,
	humidity    INTEGER NOT NULL,
	description TEXT NOT NULL,
	wind_speed  DOUBLE PRECISION NOT NULL,
	visibility  INTEGER NOT NULL,
	pressure    INTEGER NOT NULL,
	city        TEXT NOT NULL,
	country     TEXT NOT NULL,
	is_mock     BOOLEAN NOT NULL,
	timestamp   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS forecast_rows (
	id              BIGSERIAL PRIMARY KEY,
	location        TEXT NOT NULL,
	direction       TEXT NOT NULL,
	horizon_minutes INTEGER NOT NULL,
	duration        TEXT NOT NULL,
	interval_start  TIMESTAMPTZ NOT NULL,
	interval_end    TIMESTAMPTZ NOT NULL,
	forecasted_time TEXT NOT NULL,
	counts          JSONB NOT NULL,
	total_pcu       DOUBLE PRECISION NOT NULL,
	predicted_los   CHAR(1) NOT NULL,
	is_mock         BOOLEAN NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS forecast_rows_created_at_idx ON forecast_rows (created_at);
CREATE INDEX IF NOT EXISTS forecast_rows_location_idx ON forecast_rows (location, direction, created_at);
`

// PostgresRepository implements domain.DataRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates missing tables
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("postgres: failed to create schema: %w", err)
	}
	return nil
}

// SaveWeatherData persists weather data to PostgreSQL
func (r *PostgresRepository) SaveWeatherData(ctx context.Context, data domain.Weather) error {
	query := `
		INSERT INTO weather_data (
			condition, temperature, feels_like, humidity, description,
			wind_speed, visibility, pressure, city, country, is_mock, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		data.Condition, data.Temperature, data.FeelsLike, data.Humidity, data.Description,
		data.WindSpeed, data.Visibility, data.Pressure, data.City, data.Country, data.IsMock, data.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save weather data: %w", err)
	}

	return nil
}

// SaveForecast persists all rows of a forecast table in one batch
func (r *PostgresRepository) SaveForecast(ctx context.Context, site domain.Site, direction domain.Direction, rows []domain.ForecastRow) error {
	query := `
		INSERT INTO forecast_rows (
			location, direction, horizon_minutes, duration, interval_start, interval_end,
			forecasted_time, counts, total_pcu, predicted_los, is_mock, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	batch := &pgx.Batch{}
	for _, row := range rows {
		counts, err := json.Marshal(row.Counts)
		if err != nil {
			return fmt.Errorf("postgres: failed to encode counts: %w", err)
		}
		batch.Queue(query,
			string(site), string(direction), row.HorizonMinutes, row.Duration, row.Start, row.End,
			row.ForecastedTime, string(counts), row.TotalPCU, row.PredictedLOS.String(), row.IsMock, row.CreatedAt,
		)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: failed to save forecast: %w", err)
	}

	return nil
}

// GetHistoricalForecasts retrieves forecast rows from PostgreSQL
func (r *PostgresRepository) GetHistoricalForecasts(ctx context.Context, q domain.ForecastQuery) ([]domain.ForecastRow, error) {
	query := `
		SELECT location, direction, horizon_minutes, duration, interval_start, interval_end,
			   forecasted_time, counts, total_pcu, predicted_los, is_mock, created_at
		FROM forecast_rows
		WHERE created_at BETWEEN $1 AND $2
		  AND ($3::text = '' OR location = $3)
		  AND ($4::text = '' OR direction = $4)
		ORDER BY created_at DESC, horizon_minutes ASC
		LIMIT 500
	`

	rows, err := r.pool.Query(ctx, query, q.From, q.To, string(q.Site), string(q.Direction))
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query forecast rows: %w", err)
	}
	defer rows.Close()

	var results []domain.ForecastRow
	for rows.Next() {
		var (
			f         domain.ForecastRow
			site      string
			direction string
			counts    []byte
			los       string
		)
		err := rows.Scan(
			&site, &direction, &f.HorizonMinutes, &f.Duration, &f.Start, &f.End, &f.ForecastedTime,
			&counts, &f.TotalPCU, &los, &f.IsMock, &f.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan forecast row: %w", err)
		}
		if err := json.Unmarshal(counts, &f.Counts); err != nil {
			return nil, fmt.Errorf("postgres: failed to decode counts: %w", err)
		}
		if err := f.PredictedLOS.UnmarshalText([]byte(los)); err != nil {
			return nil, fmt.Errorf("postgres: failed to decode grade: %w", err)
		}
		f.Site, f.Direction = domain.Site(site), domain.Direction(direction)
		f.Horizon = time.Duration(f.HorizonMinutes) * time.Minute
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read forecast rows: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
