package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stay-auth/internal/domain"
)

const principalKey = "auth_principal"

type principalCtxKey struct{}

// Details carries the auxiliary data attached to an authenticated principal.
type Details struct {
	UserID int64
	Token  string
}

// Principal represents the authenticated caller for the lifetime of one request.
type Principal struct {
	Subject     string
	Authorities []string
	Details     Details
}

// HasAuthority reports whether the principal holds the given authority.
func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasRole reports whether the principal holds ROLE_<role>.
func (p *Principal) HasRole(role domain.Role) bool {
	return p.HasAuthority(Authority(role))
}

// PrincipalFromContext retrieves the authenticated caller from the fiber context.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil
}

// PrincipalFromUserContext retrieves the principal from a request-scoped context.Context.
func PrincipalFromUserContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey{}).(*Principal)
	return principal, ok && principal != nil
}

// WithPrincipal returns a copy of ctx carrying the principal.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, principal)
}

func setPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
	c.SetUserContext(WithPrincipal(c.UserContext(), principal))
}
