package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/stay-auth/internal/api/http"
	"github.com/spec-kit/stay-auth/internal/api/http/handlers"
	"github.com/spec-kit/stay-auth/internal/auth"
	"github.com/spec-kit/stay-auth/internal/config"
	"github.com/spec-kit/stay-auth/internal/observability"
	"github.com/spec-kit/stay-auth/internal/persistence"
	"github.com/spec-kit/stay-auth/internal/repository"
	"github.com/spec-kit/stay-auth/internal/service"
	"github.com/spec-kit/stay-auth/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("stay-auth stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// The signing key is provisioned once; an unusable secret stops startup here.
	signingKey, err := auth.NewSigningKey(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL(), logger)
	if err != nil {
		return fmt.Errorf("token signing configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	tokens := auth.NewTokenCodec(signingKey)
	cookies := auth.NewCookieTransport(cfg.Cookie)
	authenticator := auth.NewAuthenticator(tokens, cookies, logger, metrics)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:         repository.NewUserRepository(pg.PoolHandle()),
		RefreshTokenRepo: repository.NewRefreshTokenRepository(pg.PoolHandle()),
		LoginAttempts:    repository.NewLoginAttemptRepository(redis.Client),
		MaxFailedLogins:  cfg.Auth.MaxFailedLogins,
		LoginLockout:     cfg.Auth.LoginLockout(),
		Tokens:           tokens,
		Logger:           logger,
	})

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	cleanupDone := worker.StartRefreshTokenCleanup(cleanupCtx, authService, cfg.Auth.CleanupInterval(), logger)
	defer func() {
		stopCleanup()
		<-cleanupDone
	}()

	app := httptransport.NewApp(cfg.App)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, metrics),
		Auth:          handlers.NewAuthHandler(authService, cookies, auth.NewProvider(authenticator)),
		Authenticator: authenticator,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("fiber listen: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	return app.ShutdownWithTimeout(shutdownTimeout)
}
