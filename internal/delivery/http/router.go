package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naineek/trafficdash/internal/domain"
	"github.com/naineek/trafficdash/internal/service"
)

// Deps groups what the routes need.
type Deps struct {
	Dashboard   *service.DashboardService
	Forecast    *service.ForecastService
	Incidents   *service.IncidentService
	Map         *service.MapService
	Engine      domain.Engine
	SubmitLimit *RateLimiter
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, deps Deps) {
	handler := NewHandler(deps)

	submitLimit := deps.SubmitLimit
	if submitLimit == nil {
		submitLimit = NewRateLimiter(0, 1)
	}

	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/options", handler.GetOptions)

		// Dashboard endpoints
		api.Get("/dashboard", handler.GetDashboard)
		api.Get("/traffic", handler.GetTraffic)
		api.Get("/forecast", handler.GetForecast)
		api.Get("/weather", handler.GetWeather)
		api.Get("/environment", handler.GetEnvironment)
		api.Get("/map/markers", handler.GetMarkers)
		api.Get("/alerts/:level", handler.GetAlert)
		api.Get("/history/forecasts", handler.GetForecastHistory)

		// Congestion index and LOS for caller-supplied counts
		api.Post("/congestion", handler.ComputeCongestion)

		// Incident log and feedback
		api.Get("/incidents", handler.ListIncidents)
		api.Post("/incidents", submitLimit.Handler(), handler.ReportIncident)
		api.Post("/feedback", submitLimit.Handler(), handler.SubmitFeedback)
	}
}
