package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Credential is a token delivered by a transport other than the Authorization header.
type Credential struct {
	Token string
}

// Provider authenticates explicit credentials. Unlike the filter it rejects on failure.
type Provider struct {
	auth *Authenticator
}

// NewProvider wraps the shared authenticator.
func NewProvider(auth *Authenticator) *Provider {
	return &Provider{auth: auth}
}

// Authenticate proves the credential or fails with ErrBadCredentials.
func (p *Provider) Authenticate(cred Credential) (*Principal, error) {
	if cred.Token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrBadCredentials)
	}
	principal, err := p.auth.Authenticate(cred.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadCredentials, err)
	}
	return principal, nil
}

// CredentialFromRequest reads the access token cookie, falling back to the Authorization header.
// This is the reverse of Filter's order: the status endpoint reports on the
// browser session the cookies carry, and a bearer header only counts when no
// cookie is present.
func (p *Provider) CredentialFromRequest(c *fiber.Ctx) Credential {
	if p.auth.cookies != nil {
		if token, ok := p.auth.cookies.AccessTokenFromCookie(c); ok {
			return Credential{Token: token}
		}
	}
	token, _ := BearerToken(c.Get(fiber.HeaderAuthorization))
	return Credential{Token: token}
}
