package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/naineek/trafficdash/internal/domain"
	"github.com/naineek/trafficdash/internal/logging"
)

// DashboardQuery carries the control panel selections.
type DashboardQuery struct {
	Site      domain.Site
	Direction domain.Direction
	Mode      domain.Mode
	DayType   domain.DayType
	Alert     domain.AlertLevel
}

// DashboardService aggregates all live data
type DashboardService struct {
	trafficSvc     *TrafficService
	forecastSvc    *ForecastService
	weatherSvc     *WeatherService
	environmentSvc *EnvironmentService
	mapSvc         *MapService
	incidentSvc    *IncidentService
	repo           DataRepository
	loc            *time.Location
	now            func() time.Time
	logger         *slog.Logger

	wgBg sync.WaitGroup // tracks background goroutines for graceful shutdown
}

// DashboardDeps groups the collaborators of the dashboard service.
type DashboardDeps struct {
	Traffic     *TrafficService
	Forecast    *ForecastService
	Weather     *WeatherService
	Environment *EnvironmentService
	Map         *MapService
	Incidents   *IncidentService
	Repo        DataRepository
	Location    *time.Location
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(deps DashboardDeps) *DashboardService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &DashboardService{
		trafficSvc:     deps.Traffic,
		forecastSvc:    deps.Forecast,
		weatherSvc:     deps.Weather,
		environmentSvc: deps.Environment,
		mapSvc:         deps.Map,
		incidentSvc:    deps.Incidents,
		repo:           deps.Repo,
		loc:            deps.Location,
		now:            deps.Now,
		logger:         deps.Logger,
	}
}

// WaitBackground blocks until all background save goroutines complete.
// Call during graceful shutdown to avoid dropped writes.
func (s *DashboardService) WaitBackground() {
	s.wgBg.Wait()
	s.forecastSvc.WaitBackground()
}

// GetDashboardData fetches all live data concurrently using goroutines.
// Traffic and forecast failures fail the call; weather and environment
// failures are logged and left empty.
func (s *DashboardService) GetDashboardData(ctx context.Context, q DashboardQuery) (domain.DashboardData, error) {
	var (
		traffic     domain.TrafficReport
		forecast    domain.Forecast
		weather     domain.Weather
		environment domain.Environment
		wg          sync.WaitGroup
		mu          sync.Mutex
		fatal       error
	)

	record := func(name string, err error, required bool) {
		mu.Lock()
		defer mu.Unlock()
		if required && fatal == nil {
			fatal = err
			return
		}
		logging.LogError(logging.FromContext(ctx, s.logger), "dashboard data fetch error", err, slog.String("source", name))
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		t, err := s.trafficSvc.GetReport(ctx, q.DayType, q.Mode)
		if err != nil {
			record("traffic", err, true)
			return
		}
		traffic = t
	}()
	go func() {
		defer wg.Done()
		f, err := s.forecastSvc.GetForecast(ctx, q.Site, q.Direction)
		if err != nil {
			record("forecast", err, true)
			return
		}
		forecast = f
	}()
	go func() {
		defer wg.Done()
		w, err := s.weatherSvc.GetCurrentWeather(ctx)
		if err != nil {
			record("weather", err, false)
			return
		}
		weather = w
	}()
	go func() {
		defer wg.Done()
		e, err := s.environmentSvc.GetEnvironment(ctx)
		if err != nil {
			record("environment", err, false)
			return
		}
		environment = e
	}()
	wg.Wait()

	if fatal != nil {
		return domain.DashboardData{}, fatal
	}

	// Persist weather asynchronously (tracked for graceful shutdown)
	if weather.City != "" && s.repo != nil {
		s.wgBg.Add(1)
		go func() {
			defer s.wgBg.Done()
			bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.repo.SaveWeatherData(bgCtx, weather); err != nil {
				logging.LogError(s.logger, "failed to save weather data", err)
			}
		}()
	}

	now := s.now()
	return domain.DashboardData{
		Site:        q.Site,
		Direction:   q.Direction,
		Alert:       q.Alert.Advice(),
		Traffic:     traffic,
		Forecast:    forecast,
		Weather:     weather,
		Environment: environment,
		Markers:     s.mapSvc.Markers(),
		Incidents:   s.incidentSvc.List(ctx),
		Timestamp:   now,
		LocalTime:   now.In(s.loc).Format("02-01-2006 15:04:05"),
	}, nil
}

// GetWeather returns current weather
func (s *DashboardService) GetWeather(ctx context.Context) (domain.Weather, error) {
	return s.weatherSvc.GetCurrentWeather(ctx)
}

// GetEnvironment returns current environmental readings
func (s *DashboardService) GetEnvironment(ctx context.Context) (domain.Environment, error) {
	return s.environmentSvc.GetEnvironment(ctx)
}

// GetTraffic returns the traffic report
func (s *DashboardService) GetTraffic(ctx context.Context, dayType domain.DayType, mode domain.Mode) (domain.TrafficReport, error) {
	return s.trafficSvc.GetReport(ctx, dayType, mode)
}

// GetForecast returns the short-term forecast table
func (s *DashboardService) GetForecast(ctx context.Context, site domain.Site, direction domain.Direction) (domain.Forecast, error) {
	return s.forecastSvc.GetForecast(ctx, site, direction)
}

// Health checks the repository
func (s *DashboardService) Health(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Health(ctx)
}
