package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naineek/trafficdash/internal/domain"
	"github.com/naineek/trafficdash/internal/logging"
)

func TestRateLimiter(t *testing.T) {
	t.Run("burst then refill", func(t *testing.T) {
		rl := NewRateLimiter(60, 2)
		clock := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return clock }

		assert.True(t, rl.Allow("10.0.0.1"))
		assert.True(t, rl.Allow("10.0.0.1"))
		assert.False(t, rl.Allow("10.0.0.1"))
		assert.True(t, rl.Allow("10.0.0.2"), "clients are limited independently")

		clock = clock.Add(time.Second)
		assert.True(t, rl.Allow("10.0.0.1"))
	})

	t.Run("disabled when rate is zero", func(t *testing.T) {
		rl := NewRateLimiter(0, 1)
		for i := 0; i < 100; i++ {
			assert.True(t, rl.Allow("10.0.0.1"))
		}
	})

	t.Run("evicts idle clients", func(t *testing.T) {
		rl := NewRateLimiter(60, 1)
		clock := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return clock }

		rl.Allow("10.0.0.1")
		clock = clock.Add(time.Hour)
		rl.Allow("10.0.0.2")
		assert.Len(t, rl.limiters, 1)
	})

	t.Run("sweeps at most once per idle ttl", func(t *testing.T) {
		rl := NewRateLimiter(60, 1)
		start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
		clock := start
		rl.now = func() time.Time { return clock }

		for i := 0; i < 1000; i++ {
			clock = start.Add(time.Duration(i) * time.Millisecond)
			rl.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
		}
		assert.Equal(t, start, rl.lastSweep)
		assert.Len(t, rl.limiters, 1000)

		clock = start.Add(rl.idleTTL + time.Second)
		rl.Allow("10.9.9.9")
		assert.Equal(t, clock, rl.lastSweep)
		assert.Len(t, rl.limiters, 1)
	})
}

func TestErrorHandlerAndRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	app.Use(RequestLogger(logger))
	app.Get("/input", func(c *fiber.Ctx) error {
		return domain.NewInputError("mode", "Tram", "unknown vehicle mode")
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	cases := []struct {
		path   string
		status int
	}{
		{"/input", http.StatusBadRequest},
		{"/fiber", http.StatusNotFound},
		{"/boom", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)
	}

	out := buf.String()
	assert.Contains(t, out, `"path":"/input"`)
	assert.Contains(t, out, `"status":400`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"msg":"unhandled request error"`)

	t.Run("request id reaches the error log", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		req.Header.Set(fiber.HeaderXRequestID, "req-boom")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "req-boom", resp.Header.Get(fiber.HeaderXRequestID))
		// one line from the error handler, one from the request logger
		assert.Equal(t, 2, strings.Count(buf.String(), `"request_id":"req-boom"`))
	})

	t.Run("request id is generated when absent", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fiber", nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	})
}
