package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RefreshTokenPurger deletes expired refresh token records.
type RefreshTokenPurger interface {
	PurgeExpiredRefreshTokens(ctx context.Context) (int64, error)
}

// StartRefreshTokenCleanup purges once immediately and then every interval until
// ctx is cancelled. The returned channel is closed when the loop has exited.
func StartRefreshTokenCleanup(ctx context.Context, purger RefreshTokenPurger, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if purger == nil || interval <= 0 {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if _, err := purger.PurgeExpiredRefreshTokens(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("refresh token cleanup failed", zap.Error(err))
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}
