package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptPrefix = "login_failures:"

// LoginAttemptRepository counts failed logins per throttle key inside a window.
type LoginAttemptRepository interface {
	Failures(ctx context.Context, key string) (int64, error)
	RecordFailure(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

type loginAttemptRepository struct {
	client *redis.Client
}

// NewLoginAttemptRepository returns a Redis-backed implementation.
func NewLoginAttemptRepository(client *redis.Client) LoginAttemptRepository {
	return &loginAttemptRepository{client: client}
}

func (r *loginAttemptRepository) Failures(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, loginAttemptPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// RecordFailure increments the counter and restarts its window.
func (r *loginAttemptRepository) RecordFailure(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := loginAttemptPrefix + key

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *loginAttemptRepository) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, loginAttemptPrefix+key).Err()
}
