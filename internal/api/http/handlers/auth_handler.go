package handlers

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stay-auth/internal/api/dto"
	"github.com/spec-kit/stay-auth/internal/auth"
	"github.com/spec-kit/stay-auth/internal/service"
	apperrors "github.com/spec-kit/stay-auth/pkg/util/errorutil"
	"github.com/spec-kit/stay-auth/pkg/util/validation"
)

// AuthHandler exposes login, refresh, status and logout endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	cookies  *auth.CookieTransport
	provider *auth.Provider
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies *auth.CookieTransport, provider *auth.Provider) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies, provider: provider}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := validation.Struct(&req); details != nil {
		return apperrors.NewValidationError("invalid login request", details)
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password, clientInfo(c))
	if err != nil {
		return err
	}

	key := h.auth.TokenCodec().Key()
	h.cookies.SetAccessTokenCookie(c, result.Tokens.AccessToken, seconds(key.AccessTTL()))
	h.cookies.SetRefreshTokenCookie(c, result.Tokens.RefreshToken, seconds(key.RefreshTTL()))

	return c.JSON(dto.LoginResponse{
		Success: true,
		Message: "Login successful - tokens stored in secure cookies",
		User:    dto.NewUserResponse(result.User),
	})
}

// Refresh handles POST /refresh-token. The refresh cookie is scoped to this path.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken, ok := h.cookies.RefreshTokenFromCookie(c)
	if !ok {
		return apperrors.NewValidationError("no refresh token found", nil)
	}

	result, err := h.auth.Refresh(c.UserContext(), refreshToken)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.HTTPStatus == http.StatusUnauthorized {
			h.cookies.ClearAllTokenCookies(c)
		}
		return err
	}

	ttl := seconds(h.auth.TokenCodec().Key().AccessTTL())
	h.cookies.SetAccessTokenCookie(c, result.AccessToken, ttl)

	return c.JSON(dto.RefreshResponse{
		Message:              "Token refreshed successfully",
		AccessTokenExpiresIn: ttl,
		AccessTokenExpiresAt: result.AccessExpiresAt,
	})
}

// Status handles GET /auth/status. The caller's credential must prove itself.
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	principal, err := h.provider.Authenticate(h.provider.CredentialFromRequest(c))
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	user, err := h.auth.CurrentUser(c.UserContext(), principal)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Authentication valid",
		"user":    dto.NewUserResponse(user),
	})
}

// Me handles GET /auth/me for requests the filter already authenticated.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(dto.PrincipalResponse{
		Subject:     principal.Subject,
		UserID:      principal.Details.UserID,
		Authorities: principal.Authorities,
	})
}

// Logout handles POST /auth/logout. Tokens stay valid until expiry; only the cookies are cleared.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookies.ClearAllTokenCookies(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Column widths of refresh_tokens.device_info and ip_address.
const (
	maxDeviceInfoLength = 500
	maxIPAddressLength  = 45
)

func clientInfo(c *fiber.Ctx) service.ClientInfo {
	return service.ClientInfo{
		DeviceInfo: truncateUTF8(strings.ToValidUTF8(c.Get(fiber.HeaderUserAgent), ""), maxDeviceInfoLength),
		IPAddress:  clientIP(c),
	}
}

// clientIP is the address the login throttle keys on. Forwarding headers are
// only honoured through the app's trusted proxy configuration.
func clientIP(c *fiber.Ctx) string {
	ip := c.IP()
	if net.ParseIP(ip) == nil {
		ip = c.Context().RemoteIP().String()
	}
	if len(ip) > maxIPAddressLength {
		ip = ip[:maxIPAddressLength]
	}
	return ip
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
