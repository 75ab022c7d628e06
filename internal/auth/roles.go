package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stay-auth/internal/domain"
	apperrors "github.com/spec-kit/stay-auth/pkg/util/errorutil"
)

const (
	roleSeparator   = ","
	authorityPrefix = "ROLE_"
)

// SerializeRoles joins role names for the roles claim. No roles yields "".
func SerializeRoles(roles []domain.Role) string {
	if len(roles) == 0 {
		return ""
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return strings.Join(names, roleSeparator)
}

// DeserializeRoles splits a roles claim. "" yields an empty, non-nil slice.
func DeserializeRoles(raw string) []domain.Role {
	roles := []domain.Role{}
	if raw == "" {
		return roles
	}
	for _, part := range strings.Split(raw, roleSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		roles = append(roles, domain.Role(part))
	}
	return roles
}

// Authorities converts a roles claim into ROLE_ prefixed authorities.
func Authorities(raw string) []string {
	roles := DeserializeRoles(raw)
	authorities := make([]string, len(roles))
	for i, role := range roles {
		authorities[i] = Authority(role)
	}
	return authorities
}

// Authority returns the authorization-facing name of a role.
func Authority(role domain.Role) string {
	return authorityPrefix + string(role)
}

// RequireAuthenticated rejects requests that carry no principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the principal holds at least one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowed) == 0 {
			return c.Next()
		}
		for _, role := range allowed {
			if principal.HasRole(role) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}
