package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Cookie   CookieConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int

	// ProxyHeader names the header carrying the client IP. It is honoured
	// only for requests arriving from TrustedProxies.
	ProxyHeader    string
	TrustedProxies []string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr               string
	Password           string
	DB                 int
	PoolSize           int
	DialTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string
	Encoding string
	Service  string
}

// AuthConfig defines token signing and login throttling parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMillis  int64
	RefreshTokenTTLMillis int64
	MaxFailedLogins       int
	LoginLockoutSeconds   int

	// CleanupIntervalSeconds controls the expired refresh token sweep; 0 disables it.
	CleanupIntervalSeconds int
}

// CookieConfig controls the attributes of token cookies.
type CookieConfig struct {
	Secure   bool
	Domain   string
	SameSite string
}

var sameSiteModes = map[string]string{
	"lax":    "Lax",
	"strict": "Strict",
	"none":   "None",
}

// normalize canonicalizes SameSite and rejects combinations browsers drop.
func (c *CookieConfig) normalize() error {
	mode, ok := sameSiteModes[strings.ToLower(strings.TrimSpace(c.SameSite))]
	if !ok {
		return fmt.Errorf("invalid COOKIE_SAMESITE %q: want Lax, Strict or None", c.SameSite)
	}
	if mode == "None" && !c.Secure {
		return errors.New("COOKIE_SAMESITE=None requires COOKIE_SECURE=true")
	}
	c.SameSite = mode
	return nil
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	accessTTL, err := strconv.ParseInt(getEnv("JWT_ACCESS_TOKEN_EXPIRATION", "900000"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRATION: %w", err)
	}
	refreshTTL, err := strconv.ParseInt(getEnv("JWT_REFRESH_TOKEN_EXPIRATION", "604800000"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_TOKEN_EXPIRATION: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "stay-auth"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			ProxyHeader:           os.Getenv("HTTP_PROXY_HEADER"),
			TrustedProxies:        getEnvAsList("HTTP_TRUSTED_PROXIES"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:               getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:           os.Getenv("REDIS_PASSWORD"),
			DB:                 redisDB,
			PoolSize:           getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeoutSeconds: getEnvAsInt("REDIS_DIAL_TIMEOUT_SECONDS", 2),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
			Service:  getEnv("APP_NAME", "stay-auth"),
		},
		Auth: AuthConfig{
			JWTSecret:              os.Getenv("JWT_SECRET"),
			AccessTokenTTLMillis:   accessTTL,
			RefreshTokenTTLMillis:  refreshTTL,
			MaxFailedLogins:        getEnvAsInt("LOGIN_MAX_FAILED_ATTEMPTS", 5),
			LoginLockoutSeconds:    getEnvAsInt("LOGIN_LOCKOUT_SECONDS", 900),
			CleanupIntervalSeconds: getEnvAsInt("REFRESH_TOKEN_CLEANUP_INTERVAL_SECONDS", 3600),
		},
		Cookie: CookieConfig{
			Secure:   getEnvAsBool("COOKIE_SECURE", true),
			Domain:   os.Getenv("COOKIE_DOMAIN"),
			SameSite: getEnv("COOKIE_SAMESITE", "Lax"),
		},
	}

	if err := cfg.Cookie.normalize(); err != nil {
		return nil, err
	}
	if cfg.App.ProxyHeader != "" && len(cfg.App.TrustedProxies) == 0 {
		return nil, errors.New("HTTP_PROXY_HEADER requires HTTP_TRUSTED_PROXIES")
	}
	if cfg.Logger.Encoding != "json" && cfg.Logger.Encoding != "console" {
		return nil, fmt.Errorf("invalid LOG_ENCODING %q: want json or console", cfg.Logger.Encoding)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the access token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMillis) * time.Millisecond
}

// RefreshTokenTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(a.RefreshTokenTTLMillis) * time.Millisecond
}

// CleanupInterval returns the refresh token sweep period.
func (a AuthConfig) CleanupInterval() time.Duration {
	if a.CleanupIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(a.CleanupIntervalSeconds) * time.Second
}

// LoginLockout returns how long failed logins are remembered.
func (a AuthConfig) LoginLockout() time.Duration {
	return time.Duration(a.LoginLockoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsList splits a comma-separated value, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
