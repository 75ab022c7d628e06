package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/stay-auth/internal/domain"
	"github.com/spec-kit/stay-auth/internal/observability"
)

const (
	bearerPrefix = "Bearer "
	filteredKey  = "auth_filter_applied"
)

// Authenticator turns bearer tokens into principals.
type Authenticator struct {
	tokens  *TokenCodec
	cookies *CookieTransport
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAuthenticator constructs the request authenticator. cookies may be nil,
// in which case only the Authorization header is consulted.
func NewAuthenticator(tokens *TokenCodec, cookies *CookieTransport, logger *zap.Logger, metrics *observability.Metrics) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{tokens: tokens, cookies: cookies, logger: logger, metrics: metrics}
}

// Authenticate verifies an access token and derives the principal.
func (a *Authenticator) Authenticate(token string) (*Principal, error) {
	claims, err := a.tokens.Verify(token, domain.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &Principal{
		Subject:     claims.Subject,
		Authorities: Authorities(claims.Roles),
		Details:     Details{UserID: claims.UserID, Token: token},
	}, nil
}

// Filter annotates the request with a principal when a valid access token is present.
// It never rejects: routes decide what an anonymous request may do.
func (a *Authenticator) Filter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(filteredKey) != nil {
			return c.Next()
		}
		c.Locals(filteredKey, true)

		token, ok := a.extractToken(c)
		if !ok {
			a.metrics.RecordAuthentication(observability.AuthAnonymous)
			return c.Next()
		}

		principal, err := a.Authenticate(token)
		if err != nil {
			a.metrics.RecordAuthentication(observability.AuthRejected)
			a.logger.Debug("token not accepted", zap.String("path", c.Path()), zap.Error(err))
			return c.Next()
		}

		setPrincipal(c, principal)
		a.metrics.RecordAuthentication(observability.AuthAuthenticated)
		return c.Next()
	}
}

func (a *Authenticator) extractToken(c *fiber.Ctx) (string, bool) {
	if token, ok := BearerToken(c.Get(fiber.HeaderAuthorization)); ok {
		return token, true
	}
	if a.cookies != nil {
		return a.cookies.AccessTokenFromCookie(c)
	}
	return "", false
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
