package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/stay-auth/internal/service"
)

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))
	assert.Equal(t, "abc", truncateUTF8("abcdef", 3))

	// "é" is two bytes; cutting inside it must drop the whole rune.
	s := strings.Repeat("a", 499) + "é"
	got := truncateUTF8(s, 500)
	assert.Equal(t, strings.Repeat("a", 499), got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "", truncateUTF8("日本", 2))
	assert.Equal(t, "日", truncateUTF8("日本", 4))
}

func TestClientInfo_CapsDeviceInfo(t *testing.T) {
	app := fiber.New(fiber.Config{EnableTrustedProxyCheck: true})
	var got service.ClientInfo
	app.Get("/", func(c *fiber.Ctx) error {
		got = clientInfo(c)
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderUserAgent, strings.Repeat("Mozilla/5.0 ", 100))
	req.Header.Set(fiber.HeaderXForwardedFor, "198.51.100.7")
	_, err := app.Test(req)
	require.NoError(t, err)

	assert.Len(t, got.DeviceInfo, maxDeviceInfoLength)
	assert.Equal(t, "0.0.0.0", got.IPAddress)
}
