package auth

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/stay-auth/internal/config"
)

func newCookieApp(transport *CookieTransport) *fiber.App {
	app := fiber.New()
	app.Post("/set", func(c *fiber.Ctx) error {
		transport.SetAccessTokenCookie(c, "access-value", 900)
		transport.SetRefreshTokenCookie(c, "refresh-value", 604800)
		return c.SendStatus(http.StatusNoContent)
	})
	app.Post("/clear", func(c *fiber.Ctx) error {
		transport.ClearAllTokenCookies(c)
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/read", func(c *fiber.Ctx) error {
		access, _ := transport.AccessTokenFromCookie(c)
		refresh, _ := transport.RefreshTokenFromCookie(c)
		return c.JSON(fiber.Map{
			"access":     access,
			"refresh":    refresh,
			"hasAccess":  transport.HasAccessTokenCookie(c),
			"hasRefresh": transport.HasRefreshTokenCookie(c),
		})
	})
	return app
}

func responseCookies(t *testing.T, app *fiber.App, path string) map[string]*http.Cookie {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, path, nil))
	require.NoError(t, err)
	out := map[string]*http.Cookie{}
	for _, ck := range resp.Cookies() {
		out[ck.Name] = ck
	}
	return out
}

func TestCookieTransport_SetAttributes(t *testing.T) {
	transport := NewCookieTransport(config.CookieConfig{Secure: true, Domain: "stay.example", SameSite: "Strict"})

	cookies := responseCookies(t, newCookieApp(transport), "/set")

	access := cookies[AccessTokenCookie]
	require.NotNil(t, access)
	assert.Equal(t, "access-value", access.Value)
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, 900, access.MaxAge)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, "stay.example", access.Domain)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)

	refresh := cookies[RefreshTokenCookie]
	require.NotNil(t, refresh)
	assert.Equal(t, "refresh-value", refresh.Value)
	assert.Equal(t, "/refresh-token", refresh.Path)
	assert.Equal(t, 604800, refresh.MaxAge)
	assert.True(t, refresh.HttpOnly)
	assert.True(t, refresh.Secure)
}

func TestCookieTransport_DefaultsToLax(t *testing.T) {
	transport := NewCookieTransport(config.CookieConfig{})

	cookies := responseCookies(t, newCookieApp(transport), "/set")

	access := cookies[AccessTokenCookie]
	require.NotNil(t, access)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.False(t, access.Secure)
	assert.True(t, access.HttpOnly)
}

func TestCookieTransport_RefreshCookieScopedToRefreshPath(t *testing.T) {
	transport := NewCookieTransport(config.CookieConfig{Secure: true})
	app := newCookieApp(transport)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	origin, _ := url.Parse("https://stay.example/auth/login")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/set", nil))
	require.NoError(t, err)
	jar.SetCookies(origin, resp.Cookies())

	sent := func(path string) map[string]string {
		u, _ := url.Parse("https://stay.example" + path)
		out := map[string]string{}
		for _, ck := range jar.Cookies(u) {
			out[ck.Name] = ck.Value
		}
		return out
	}

	hotels := sent("/api/hotels")
	assert.Equal(t, "access-value", hotels[AccessTokenCookie])
	assert.NotContains(t, hotels, RefreshTokenCookie)

	refresh := sent("/refresh-token")
	assert.Equal(t, "access-value", refresh[AccessTokenCookie])
	assert.Equal(t, "refresh-value", refresh[RefreshTokenCookie])

	// clearing with matching paths removes both
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/clear", nil))
	require.NoError(t, err)
	jar.SetCookies(origin, resp.Cookies())

	assert.Empty(t, sent("/refresh-token"))
	assert.Empty(t, sent("/api/hotels"))
}

func TestCookieTransport_ClearExpiresCookies(t *testing.T) {
	transport := NewCookieTransport(config.CookieConfig{Secure: true, Domain: "stay.example"})

	cookies := responseCookies(t, newCookieApp(transport), "/clear")

	for name, path := range map[string]string{AccessTokenCookie: "/", RefreshTokenCookie: "/refresh-token"} {
		ck := cookies[name]
		require.NotNil(t, ck, name)
		assert.Empty(t, ck.Value)
		assert.Equal(t, path, ck.Path)
		assert.Equal(t, "stay.example", ck.Domain)
		assert.True(t, ck.HttpOnly)
		assert.True(t, ck.Expires.Before(time.Now()))
	}
}

func TestCookieTransport_Read(t *testing.T) {
	app := newCookieApp(NewCookieTransport(config.CookieConfig{}))

	read := func(cookies ...*http.Cookie) string {
		req := httptest.NewRequest(http.MethodGet, "/read", nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(raw)
	}

	assert.JSONEq(t,
		`{"access":"a","refresh":"r","hasAccess":true,"hasRefresh":true}`,
		read(&http.Cookie{Name: AccessTokenCookie, Value: "a"}, &http.Cookie{Name: RefreshTokenCookie, Value: "r"}),
	)
	assert.JSONEq(t,
		`{"access":"","refresh":"","hasAccess":false,"hasRefresh":false}`,
		read(),
	)
}
