package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/stay-auth/internal/config"
)

func TestPoolConfig(t *testing.T) {
	cfg, err := poolConfig(config.PostgresConfig{
		DSN:            "postgres://auth:pw@db.internal:5432/stay?sslmode=disable",
		MaxConns:       12,
		MinConns:       3,
		ConnMaxIdleSec: 45,
		ConnMaxLifeSec: 600,
	})
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.ConnConfig.Host)
	assert.Equal(t, "stay", cfg.ConnConfig.Database)
	assert.EqualValues(t, 12, cfg.MaxConns)
	assert.EqualValues(t, 3, cfg.MinConns)
	assert.Equal(t, 45*time.Second, cfg.MaxConnIdleTime)
	assert.Equal(t, 10*time.Minute, cfg.MaxConnLifetime)
}

func TestPoolConfig_Errors(t *testing.T) {
	_, err := poolConfig(config.PostgresConfig{DSN: "postgres://auth@db:notaport/stay"})
	assert.Error(t, err)

	_, err = poolConfig(config.PostgresConfig{DSN: "postgres://auth@db/stay", MaxConns: 2, MinConns: 5})
	assert.ErrorContains(t, err, "POSTGRES_MIN_CONNS")
}

func TestNewPostgres_WithoutDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)

	assert.Nil(t, pg.PoolHandle())
	assert.ErrorIs(t, pg.Ping(context.Background()), ErrPostgresNotConfigured)
	pg.Close()
}
