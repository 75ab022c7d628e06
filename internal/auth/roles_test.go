package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/stay-auth/internal/domain"
	apperrors "github.com/spec-kit/stay-auth/pkg/util/errorutil"
)

func TestRoles_RoundTrip(t *testing.T) {
	cases := [][]domain.Role{
		{},
		{domain.RoleGuest},
		{domain.RoleAdmin, domain.RoleStaff},
		{domain.RoleGuest, domain.RoleStaff, domain.RoleHotelAdmin, domain.RoleSuperAdmin},
	}
	for _, roles := range cases {
		assert.Equal(t, roles, DeserializeRoles(SerializeRoles(roles)))
	}
}

func TestSerializeRoles(t *testing.T) {
	assert.Equal(t, "", SerializeRoles(nil))
	assert.Equal(t, "", SerializeRoles([]domain.Role{}))
	assert.Equal(t, "ADMIN,STAFF", SerializeRoles([]domain.Role{domain.RoleAdmin, domain.RoleStaff}))
}

func TestDeserializeRoles(t *testing.T) {
	empty := DeserializeRoles("")
	require.NotNil(t, empty)
	assert.Empty(t, empty)

	assert.Equal(t, []domain.Role{domain.RoleAdmin, domain.RoleStaff}, DeserializeRoles(" ADMIN , ,STAFF"))
}

func TestAuthorities(t *testing.T) {
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_STAFF"}, Authorities("ADMIN,STAFF"))
	assert.Empty(t, Authorities(""))
	assert.Equal(t, "ROLE_HOTEL_ADMIN", Authority(domain.RoleHotelAdmin))
}

// guardedApp mounts guard behind a stub that installs principal when non-nil.
func guardedApp(principal *Principal, guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		if principal != nil {
			setPrincipal(c, principal)
		}
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func TestRequireAuthenticated(t *testing.T) {
	resp, err := guardedApp(nil, RequireAuthenticated()).Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	principal := &Principal{Subject: "a@b.com", Authorities: []string{}}
	resp, err = guardedApp(principal, RequireAuthenticated()).Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	staff := &Principal{Subject: "s@b.com", Authorities: []string{"ROLE_STAFF"}}

	cases := []struct {
		name      string
		principal *Principal
		allowed   []domain.Role
		status    int
	}{
		{"anonymous", nil, []domain.Role{domain.RoleStaff}, http.StatusUnauthorized},
		{"matching role", staff, []domain.Role{domain.RoleHotelAdmin, domain.RoleStaff}, http.StatusNoContent},
		{"missing role", staff, []domain.Role{domain.RoleSuperAdmin}, http.StatusForbidden},
		{"no roles required", staff, nil, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := guardedApp(tc.principal, RequireRole(tc.allowed...))
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
