package auth

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/stay-auth/internal/domain"
)

// MinSecretLength is the recommended minimum secret size in bytes.
const MinSecretLength = 32

var insecureSecretMarkers = []string{
	"changeme",
	"change-me",
	"change_me",
	"dev-secret",
	"your-secret",
	"your_secret",
	"secret-key",
	"placeholder",
	"example",
	"default",
	"password",
}

// SigningKey holds the validated signing secret and token lifetimes.
// It is immutable after construction and safe for concurrent use.
type SigningKey struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewSigningKey validates the configured secret once at startup.
// An empty secret is fatal; a weak one is only logged.
func NewSigningKey(secret string, accessTTL, refreshTTL time.Duration, logger *zap.Logger) (*SigningKey, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: signing secret must not be empty", ErrInvalidArgument)
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("%w: token lifetimes must be positive", ErrInvalidArgument)
	}
	if accessTTL >= refreshTTL {
		return nil, fmt.Errorf("%w: access token lifetime must be shorter than refresh token lifetime", ErrInvalidArgument)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	if reason, weak := weakSecret(secret); weak {
		logger.Warn("SECURITY WARNING: JWT signing secret is weak; tokens can be forged. Set JWT_SECRET to a random value of at least 32 bytes",
			zap.String("reason", reason),
			zap.Int("secret_length", len(secret)),
			zap.Int("recommended_length", MinSecretLength),
		)
	}

	return &SigningKey{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// TTL returns the lifetime for the given token type.
func (k *SigningKey) TTL(tokenType domain.TokenType) time.Duration {
	if tokenType == domain.TokenTypeRefresh {
		return k.refreshTTL
	}
	return k.accessTTL
}

// AccessTTL returns the access token lifetime.
func (k *SigningKey) AccessTTL() time.Duration { return k.accessTTL }

// RefreshTTL returns the refresh token lifetime.
func (k *SigningKey) RefreshTTL() time.Duration { return k.refreshTTL }

// String never reveals the secret.
func (k *SigningKey) String() string {
	return "SigningKey(***)"
}

func weakSecret(secret string) (string, bool) {
	if len(secret) < MinSecretLength {
		return "too short", true
	}
	lower := strings.ToLower(secret)
	for _, marker := range insecureSecretMarkers {
		if strings.Contains(lower, marker) {
			return "matches a placeholder pattern", true
		}
	}
	if strings.Count(secret, secret[:1]) == len(secret) {
		return "single repeated character", true
	}
	return "", false
}
