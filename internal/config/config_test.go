package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRATION", "")
	t.Setenv("JWT_REFRESH_TOKEN_EXPIRATION", "")
	t.Setenv("COOKIE_SECURE", "")
	t.Setenv("COOKIE_DOMAIN", "")
	t.Setenv("COOKIE_SAMESITE", "")
	t.Setenv("LOG_ENCODING", "")
	t.Setenv("LOGIN_MAX_FAILED_ATTEMPTS", "")
	t.Setenv("LOGIN_LOCKOUT_SECONDS", "")
	t.Setenv("REDIS_POOL_SIZE", "")
	t.Setenv("REDIS_DIAL_TIMEOUT_SECONDS", "")
	t.Setenv("HTTP_PROXY_HEADER", "")
	t.Setenv("HTTP_TRUSTED_PROXIES", "")
	t.Setenv("REFRESH_TOKEN_CLEANUP_INTERVAL_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, "json", cfg.Logger.Encoding)
	assert.Equal(t, 5, cfg.Auth.MaxFailedLogins)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LoginLockout())
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL())
	assert.True(t, cfg.Cookie.Secure)
	assert.Empty(t, cfg.Cookie.Domain)
	assert.Equal(t, "Lax", cfg.Cookie.SameSite)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 2, cfg.Redis.DialTimeoutSeconds)
	assert.Empty(t, cfg.App.ProxyHeader)
	assert.Empty(t, cfg.App.TrustedProxies)
	assert.Equal(t, time.Hour, cfg.Auth.CleanupInterval())
}

func TestLoad_ProxyHeaderNeedsTrustedProxies(t *testing.T) {
	t.Setenv("HTTP_PROXY_HEADER", "X-Forwarded-For")
	t.Setenv("HTTP_TRUSTED_PROXIES", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("HTTP_TRUSTED_PROXIES", "10.0.0.0/8, ,192.0.2.10")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "X-Forwarded-For", cfg.App.ProxyHeader)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.App.TrustedProxies)
}

func TestLoad_AuthAndCookieOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-very-long-secret-value-for-hs512-signing")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRATION", "60000")
	t.Setenv("JWT_REFRESH_TOKEN_EXPIRATION", "3600000")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("COOKIE_DOMAIN", "example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "a-very-long-secret-value-for-hs512-signing", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, time.Hour, cfg.Auth.RefreshTokenTTL())
	assert.False(t, cfg.Cookie.Secure)
	assert.Equal(t, "example.com", cfg.Cookie.Domain)
}

func TestLoad_InvalidTTL(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRATION", "fifteen-minutes")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_SameSite(t *testing.T) {
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("COOKIE_SAMESITE", "strict")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Strict", cfg.Cookie.SameSite)

	t.Setenv("COOKIE_SAMESITE", "sideways")
	_, err = Load()
	assert.ErrorContains(t, err, "COOKIE_SAMESITE")

	t.Setenv("COOKIE_SAMESITE", "None")
	t.Setenv("COOKIE_SECURE", "false")
	_, err = Load()
	assert.ErrorContains(t, err, "COOKIE_SECURE")
}

func TestLoad_InvalidLogEncoding(t *testing.T) {
	t.Setenv("LOG_ENCODING", "xml")

	_, err := Load()
	assert.ErrorContains(t, err, "LOG_ENCODING")
}

func TestAppConfig_RequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
	assert.Equal(t, "0.0.0.0:8080", AppConfig{Host: "0.0.0.0", Port: "8080"}.Addr())
	assert.Zero(t, AuthConfig{}.CleanupInterval())
}
