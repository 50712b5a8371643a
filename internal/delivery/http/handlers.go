package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/naineek/trafficdash/internal/domain"
	"github.com/naineek/trafficdash/internal/service"
	"github.com/naineek/trafficdash/pkg/utils"
)

// Handler contains all HTTP handlers
type Handler struct {
	dashboardSvc *service.DashboardService
	forecastSvc  *service.ForecastService
	incidentSvc  *service.IncidentService
	mapSvc       *service.MapService
	engine       domain.Engine
}

// NewHandler creates a new handler
func NewHandler(deps Deps) *Handler {
	return &Handler{
		dashboardSvc: deps.Dashboard,
		forecastSvc:  deps.Forecast,
		incidentSvc:  deps.Incidents,
		mapSvc:       deps.Map,
		engine:       deps.Engine,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	database := "ok"
	if err := h.dashboardSvc.Health(ctx); err != nil {
		database = "unavailable"
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "trafficdash",
		"version":  "1.0.0",
		"database": database,
	})
}

// GetOptions lists the values accepted by the control panel
func (h *Handler) GetOptions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"locations":      domain.Sites,
			"directions":     domain.Directions,
			"modes":          domain.Modes,
			"day_types":      domain.DayTypes,
			"alert_levels":   domain.AlertLevels,
			"incident_types": domain.IncidentTypes,
			"severities":     domain.Severities,
			"weights":        h.engine.Weights(),
			"scale_factor":   h.engine.ScaleFactor(),
		},
	})
}

// GetDashboard returns aggregated live data
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	q, err := parseDashboardQuery(c)
	if err != nil {
		return err
	}

	data, err := h.dashboardSvc.GetDashboardData(c.UserContext(), q)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch dashboard data")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// GetTraffic returns the simulated traffic series and its derived views
func (h *Handler) GetTraffic(c *fiber.Ctx) error {
	dayType, err := domain.ParseDayType(c.Query("day_type"))
	if err != nil {
		return err
	}
	mode, err := domain.ParseMode(c.Query("mode", string(domain.ModeCar)))
	if err != nil {
		return err
	}

	traffic, err := h.dashboardSvc.GetTraffic(c.UserContext(), dayType, mode)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch traffic data")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    traffic,
	})
}

// GetForecast returns the short-term forecast table
func (h *Handler) GetForecast(c *fiber.Ctx) error {
	site, err := domain.ParseSite(c.Query("location"))
	if err != nil {
		return err
	}
	direction, err := domain.ParseDirection(c.Query("direction"))
	if err != nil {
		return err
	}

	forecast, err := h.dashboardSvc.GetForecast(c.UserContext(), site, direction)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build forecast")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    forecast,
	})
}

// CongestionRequest is the body of POST /congestion.
type CongestionRequest struct {
	Counts      domain.ModeCount `json:"counts"`
	ScaleFactor *float64         `json:"scale_factor,omitempty"`
}

// ComputeCongestion grades a caller-supplied set of counts
func (h *Handler) ComputeCongestion(c *fiber.Ctx) error {
	var req CongestionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	scale := h.engine.ScaleFactor()
	if req.ScaleFactor != nil {
		scale = *req.ScaleFactor
	}

	a, err := h.engine.AssessScaled(req.Counts, scale)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"congestion_index": a.CongestionIndex,
			"service_grade":    a.ServiceGrade,
			"color":            a.ServiceGrade.Color(),
			"scale_factor":     scale,
		},
	})
}

// GetWeather returns current weather data
func (h *Handler) GetWeather(c *fiber.Ctx) error {
	weather, err := h.dashboardSvc.GetWeather(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch weather data")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    weather,
	})
}

// GetEnvironment returns environmental impact readings
func (h *Handler) GetEnvironment(c *fiber.Ctx) error {
	env, err := h.dashboardSvc.GetEnvironment(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch environment data")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    env,
	})
}

// GetMarkers returns congestion markers, optionally near a point
func (h *Handler) GetMarkers(c *fiber.Ctx) error {
	if c.Query("radius_km") == "" {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    h.mapSvc.Markers(),
		})
	}

	lat := c.QueryFloat("lat", domain.NewtownCenterLat)
	lon := c.QueryFloat("lon", domain.NewtownCenterLon)
	radius := c.QueryFloat("radius_km", 0)

	markers, err := h.mapSvc.MarkersNear(lat, lon, radius)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    markers,
		"count":   len(markers),
	})
}

// GetAlert returns the advice for an emergency level
func (h *Handler) GetAlert(c *fiber.Ctx) error {
	level, err := domain.ParseAlertLevel(c.Params("level"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    level.Advice(),
	})
}

// ListIncidents returns the incident log
func (h *Handler) ListIncidents(c *fiber.Ctx) error {
	incidents := h.incidentSvc.List(c.UserContext())
	return c.JSON(fiber.Map{
		"success": true,
		"data":    incidents,
		"count":   len(incidents),
	})
}

// ReportIncident records an incident from the report form
func (h *Handler) ReportIncident(c *fiber.Ctx) error {
	var req domain.IncidentReport
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	inc, err := h.incidentSvc.Report(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    inc,
		"message": "Incident reported at " + inc.Location + " - " + string(inc.Type) + " (" + string(inc.Severity) + ")",
	})
}

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// SubmitFeedback records civic feedback
func (h *Handler) SubmitFeedback(c *fiber.Ctx) error {
	var req FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	fb, err := h.incidentSvc.SubmitFeedback(c.UserContext(), req.Feedback)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"id": fb.ID, "submitted_at": fb.SubmittedAt},
		"message": "Feedback submitted. Thank you!",
	})
}

// GetForecastHistory returns stored forecast rows within a time range,
// optionally for one location and direction
func (h *Handler) GetForecastHistory(c *fiber.Ctx) error {
	// at most 30 days
	hours := int(utils.Clamp(float64(c.QueryInt("hours", 24)), 1, 720))

	var (
		site      domain.Site
		direction domain.Direction
		err       error
	)
	if v := c.Query("location"); v != "" {
		if site, err = domain.ParseSite(v); err != nil {
			return err
		}
	}
	if v := c.Query("direction"); v != "" {
		if direction, err = domain.ParseDirection(v); err != nil {
			return err
		}
	}

	data, err := h.forecastSvc.History(c.UserContext(), hours, site, direction)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch forecast history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

func parseDashboardQuery(c *fiber.Ctx) (service.DashboardQuery, error) {
	var (
		q   service.DashboardQuery
		err error
	)
	if q.Site, err = domain.ParseSite(c.Query("location")); err != nil {
		return q, err
	}
	if q.Direction, err = domain.ParseDirection(c.Query("direction")); err != nil {
		return q, err
	}
	if q.Mode, err = domain.ParseMode(c.Query("mode", string(domain.ModeCar))); err != nil {
		return q, err
	}
	if q.DayType, err = domain.ParseDayType(c.Query("day_type")); err != nil {
		return q, err
	}
	if q.Alert, err = domain.ParseAlertLevel(c.Query("alert")); err != nil {
		return q, err
	}
	return q, nil
}
