package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/stay-auth/internal/auth"
	"github.com/spec-kit/stay-auth/internal/domain"
	"github.com/spec-kit/stay-auth/internal/repository"
	apperrors "github.com/spec-kit/stay-auth/pkg/util/errorutil"
)

// ClientInfo identifies the device a refresh token was issued to.
type ClientInfo struct {
	DeviceInfo string
	IPAddress  string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User   *domain.User
	Tokens auth.TokenPair
}

// RefreshResult is returned by a successful refresh exchange.
type RefreshResult struct {
	UserID          int64
	AccessToken     string
	AccessExpiresAt time.Time
}

// AuthService coordinates login, refresh and status flows.
type AuthService struct {
	users           repository.UserRepository
	refreshTokens   repository.RefreshTokenRepository
	loginAttempts   repository.LoginAttemptRepository
	maxFailedLogins int64
	lockout         time.Duration
	tokens          *auth.TokenCodec
	logger          *zap.Logger
	now             func() time.Time
}

// AuthDependencies encapsulates collaborators of the auth service.
// Login throttling stays off while any of the LoginAttempts/MaxFailedLogins/LoginLockout fields is unset.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	LoginAttempts    repository.LoginAttemptRepository
	MaxFailedLogins  int
	LoginLockout     time.Duration
	Tokens           *auth.TokenCodec
	Logger           *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AuthService{
		users:         deps.UserRepo,
		refreshTokens: deps.RefreshTokenRepo,
		tokens:        deps.Tokens,
		logger:        logger,
		now:           time.Now,
	}
	if deps.LoginAttempts != nil && deps.MaxFailedLogins > 0 && deps.LoginLockout > 0 {
		svc.loginAttempts = deps.LoginAttempts
		svc.maxFailedLogins = int64(deps.MaxFailedLogins)
		svc.lockout = deps.LoginLockout
	}
	return svc
}

// Login authenticates by email and password and issues a token pair.
// The refresh token's hash is stored; the raw token only goes to the client.
func (s *AuthService) Login(ctx context.Context, email, password string, client ClientInfo) (*LoginResult, error) {
	throttleKey := strings.ToLower(strings.TrimSpace(email)) + "|" + client.IPAddress
	if s.loginLocked(ctx, throttleKey) {
		return nil, apperrors.NewTooManyRequests("too many failed login attempts, try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			auth.BurnPasswordCheck(password)
			s.recordLoginFailure(ctx, throttleKey)
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) || !user.Active {
		s.recordLoginFailure(ctx, throttleKey)
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	s.resetLoginFailures(ctx, throttleKey)

	pair, err := s.tokens.IssuePair(*user)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashRefreshToken(pair.RefreshToken)
	if err != nil {
		return nil, err
	}
	record := &domain.RefreshToken{
		TokenHash:  hash,
		UserID:     user.ID,
		ExpiresAt:  pair.RefreshExpiresAt,
		DeviceInfo: client.DeviceInfo,
		IPAddress:  client.IPAddress,
	}
	if err := s.refreshTokens.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))

	return &LoginResult{User: user, Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new access token. The presented
// token must verify as a REFRESH token and its hash must be on record.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.tokens.Verify(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		s.logger.Debug("refresh token rejected", zap.Error(err))
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	hash, err := auth.HashRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	stored, err := s.refreshTokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid refresh token")
		}
		return nil, err
	}
	if stored.Expired(s.now()) {
		if _, err := s.PurgeExpiredRefreshTokens(ctx); err != nil {
			s.logger.Warn("failed to purge expired refresh tokens", zap.Error(err))
		}
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}
	if stored.UserID != claims.UserID || !auth.MatchRefreshToken(refreshToken, stored.TokenHash) {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid refresh token")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	access, err := s.tokens.Issue(*user, domain.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	expiresAt, err := s.tokens.ExtractExpiresAt(access)
	if err != nil {
		return nil, err
	}

	return &RefreshResult{UserID: user.ID, AccessToken: access, AccessExpiresAt: expiresAt}, nil
}

// PurgeExpiredRefreshTokens deletes stored refresh token hashes past their expiry.
func (s *AuthService) PurgeExpiredRefreshTokens(ctx context.Context) (int64, error) {
	removed, err := s.refreshTokens.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("purged expired refresh tokens", zap.Int64("count", removed))
	}
	return removed, nil
}

// CurrentUser loads the active account behind an authenticated principal.
func (s *AuthService) CurrentUser(ctx context.Context, principal *auth.Principal) (*domain.User, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("not authenticated")
	}
	user, err := s.users.GetByID(ctx, principal.Details.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("user not found or inactive")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("user not found or inactive")
	}
	return user, nil
}

// Throttling fails open: a Redis outage is logged and never blocks logins.
func (s *AuthService) loginLocked(ctx context.Context, key string) bool {
	if s.loginAttempts == nil {
		return false
	}
	failures, err := s.loginAttempts.Failures(ctx, key)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
		return false
	}
	return failures >= s.maxFailedLogins
}

func (s *AuthService) recordLoginFailure(ctx context.Context, key string) {
	if s.loginAttempts == nil {
		return
	}
	failures, err := s.loginAttempts.RecordFailure(ctx, key, s.lockout)
	if err != nil {
		s.logger.Warn("failed to record login failure", zap.Error(err))
		return
	}
	if failures == s.maxFailedLogins {
		s.logger.Warn("login locked after repeated failures", zap.Int64("failures", failures), zap.Duration("lockout", s.lockout))
	}
}

func (s *AuthService) resetLoginFailures(ctx context.Context, key string) {
	if s.loginAttempts == nil {
		return
	}
	if err := s.loginAttempts.Reset(ctx, key); err != nil {
		s.logger.Warn("failed to reset login failures", zap.Error(err))
	}
}

// TokenCodec exposes the codec for middleware wiring.
func (s *AuthService) TokenCodec() *auth.TokenCodec {
	return s.tokens
}
