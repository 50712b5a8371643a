package http

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/naineek/trafficdash/internal/domain"
	"github.com/naineek/trafficdash/internal/logging"
)

// ErrorHandler renders every error as {"error": true, "message": ...}.
// Input validation failures become 400.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		case errors.Is(err, domain.ErrInvalidInput):
			code = fiber.StatusBadRequest
			message = err.Error()
		default:
			logging.LogError(logging.FromContext(c.UserContext(), logger), "unhandled request error", err,
				slog.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
		})
	}
}

// RequestLogger logs each request through slog. It tags the request with an
// X-Request-ID and stores a logger carrying that id in the user context.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, requestID)
		reqLogger := logger.With(slog.String("request_id", requestID))
		c.SetUserContext(logging.WithLogger(c.UserContext(), reqLogger))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			switch {
			case errors.As(err, &fe):
				status = fe.Code
			case errors.Is(err, domain.ErrInvalidInput):
				status = fiber.StatusBadRequest
			default:
				status = fiber.StatusInternalServerError
			}
		}

		logging.LogHTTPRequest(reqLogger, c.Method(), c.Path(), status,
			float64(time.Since(start).Microseconds())/1000,
			slog.String("ip", c.IP()))
		return err
	}
}

// RateLimiter limits requests per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per client with the given burst.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    limit,
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether key may make another request now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, ok := rl.limiters[key]
	if !ok {
		if now.Sub(rl.lastSweep) >= rl.idleTTL {
			rl.evictIdle(now)
			rl.lastSweep = now
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// evictIdle drops limiters not seen for idleTTL. Caller holds mu.
func (rl *RateLimiter) evictIdle(now time.Time) {
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) > rl.idleTTL {
			delete(rl.limiters, key)
		}
	}
}

// Handler returns the Fiber middleware.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.Allow(c.IP()) {
			c.Set(fiber.HeaderRetryAfter, "60")
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many submissions, try again later")
		}
		return c.Next()
	}
}
