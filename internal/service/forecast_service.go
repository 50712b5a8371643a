package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/naineek/trafficdash/internal/domain"
	"github.com/naineek/trafficdash/internal/logging"
)

// Horizon is one row of the short-term forecast table.
type Horizon struct {
	Offset time.Duration
	Label  string
}

// Horizons are the forecast offsets from now.
var Horizons = []Horizon{
	{5 * time.Minute, "5 min"},
	{15 * time.Minute, "15 min"},
	{30 * time.Minute, "30 min"},
	{time.Hour, "1 hour"},
	{2 * time.Hour, "2 hour"},
}

const clockLayout = "03:04 PM"

// ForecastService builds the short-term forecast table
type ForecastService struct {
	engine domain.Engine
	bridge *ForecastBridge
	repo   DataRepository
	rng    *rand.Rand
	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger

	wgBg sync.WaitGroup
}

// NewForecastService creates a new forecast service
func NewForecastService(
	engine domain.Engine,
	bridge *ForecastBridge,
	repo DataRepository,
	rng *rand.Rand,
	now func() time.Time,
	loc *time.Location,
	logger *slog.Logger,
) *ForecastService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ForecastService{
		engine: engine,
		bridge: bridge,
		repo:   repo,
		rng:    rng,
		now:    now,
		loc:    loc,
		logger: logger,
	}
}

// WaitBackground blocks until pending forecast saves finish.
func (s *ForecastService) WaitBackground() {
	s.wgBg.Wait()
}

// GetForecast predicts counts for every horizon and grades each row.
func (s *ForecastService) GetForecast(ctx context.Context, site domain.Site, direction domain.Direction) (domain.Forecast, error) {
	now := s.now().In(s.loc)

	req := ForecastRequest{
		Location:  site,
		Direction: direction,
		Start:     now,
		Modes:     domain.Modes,
	}
	for _, h := range Horizons {
		req.HorizonsMinutes = append(req.HorizonsMinutes, int(h.Offset/time.Minute))
	}

	isMock := false
	assessments, counts, err := s.fetchCounts(ctx, req)
	if err != nil {
		if s.bridge.Enabled() {
			logging.LogError(s.logger, "forecast service failed, using simulated counts", err,
				slog.String("component", "forecast"))
		}
		counts = simulateForecastCounts(s.rng, len(Horizons))
		if assessments, err = s.assessAll(counts); err != nil {
			return domain.Forecast{}, fmt.Errorf("forecast: %w", err)
		}
		isMock = true
	}

	forecast := domain.Forecast{
		GeneratedAt: now,
		ScaleFactor: s.engine.ScaleFactor(),
		Rows:        make([]domain.ForecastRow, 0, len(Horizons)),
	}
	for i, h := range Horizons {
		start := now.Add(h.Offset)
		end := start.Add(domain.BucketDuration)
		forecast.Rows = append(forecast.Rows, domain.ForecastRow{
			Site:           site,
			Direction:      direction,
			Horizon:        h.Offset,
			HorizonMinutes: int(h.Offset / time.Minute),
			Duration:       h.Label,
			Start:          start,
			End:            end,
			ForecastedTime: start.Format(clockLayout) + " - " + end.Format(clockLayout),
			Counts:         counts[i],
			TotalPCU:       assessments[i].CongestionIndex,
			PredictedLOS:   assessments[i].ServiceGrade,
			IsMock:         isMock,
			CreatedAt:      now,
		})
	}

	s.save(site, direction, forecast.Rows)
	return forecast, nil
}

// fetchCounts asks the bridge for counts and grades them. Counts the engine
// rejects are treated like an unreachable service.
func (s *ForecastService) fetchCounts(ctx context.Context, req ForecastRequest) ([]domain.Assessment, []domain.ModeCount, error) {
	counts, err := s.bridge.Forecast(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	assessments, err := s.assessAll(counts)
	if err != nil {
		return nil, nil, fmt.Errorf("forecast_bridge: invalid counts: %w", err)
	}
	return assessments, counts, nil
}

func (s *ForecastService) assessAll(counts []domain.ModeCount) ([]domain.Assessment, error) {
	out := make([]domain.Assessment, len(counts))
	for i, c := range counts {
		a, err := s.engine.Assess(c)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

// save persists forecast rows in the background
func (s *ForecastService) save(site domain.Site, direction domain.Direction, rows []domain.ForecastRow) {
	if s.repo == nil {
		return
	}
	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.SaveForecast(bgCtx, site, direction, rows); err != nil {
			logging.LogError(s.logger, "failed to save forecast", err,
				slog.String("component", "forecast"),
				slog.String("location", string(site)))
			return
		}
		logging.LogOperation(s.logger, "forecast_saved",
			slog.String("location", string(site)),
			slog.Int("rows", len(rows)))
	}()
}

// History returns forecast rows stored during the last hours. Empty site or
// direction match any.
func (s *ForecastService) History(ctx context.Context, hours int, site domain.Site, direction domain.Direction) ([]domain.ForecastRow, error) {
	to := s.now()
	return s.repo.GetHistoricalForecasts(ctx, domain.ForecastQuery{
		From:      to.Add(-time.Duration(hours) * time.Hour),
		To:        to,
		Site:      site,
		Direction: direction,
	})
}
