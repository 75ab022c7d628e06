package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/stay-auth/internal/config"
)

func TestNewLogger(t *testing.T) {
	for _, encoding := range []string{"json", "console", ""} {
		logger, err := NewLogger(config.LoggerConfig{Level: "debug", Encoding: encoding, Service: "stay-auth"})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	}

	logger, err := NewLogger(config.LoggerConfig{Level: "not-a-level"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(RequestIDKey, "req-1")
		return c.Next()
	})
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/auth/me", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer secret-token")
	_, err := app.Test(req)
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/auth/me", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.Equal(t, "req-1", fields["request_id"])
	for _, v := range fields {
		assert.NotEqual(t, "Bearer secret-token", v)
	}

	assert.EqualValues(t, 1, metrics.Snapshot().Requests["/auth/me|GET|418"])
}
