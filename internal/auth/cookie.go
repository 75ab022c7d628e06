package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stay-auth/internal/config"
)

// Cookie names and paths.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	AccessTokenCookiePath  = "/"
	RefreshTokenCookiePath = "/refresh-token"
)

// CookieTransport sets, reads and clears token cookies. Values are the
// signed tokens as issued; HttpOnly and Secure are the only protection.
type CookieTransport struct {
	secure   bool
	domain   string
	sameSite string
}

// NewCookieTransport builds a transport from cookie configuration.
func NewCookieTransport(cfg config.CookieConfig) *CookieTransport {
	sameSite := cfg.SameSite
	if sameSite == "" {
		sameSite = fiber.CookieSameSiteLaxMode
	}
	return &CookieTransport{secure: cfg.Secure, domain: cfg.Domain, sameSite: sameSite}
}

// SetAccessTokenCookie sends the access token on every path.
func (t *CookieTransport) SetAccessTokenCookie(c *fiber.Ctx, token string, maxAgeSeconds int) {
	c.Cookie(t.cookie(AccessTokenCookie, token, AccessTokenCookiePath, maxAgeSeconds))
}

// SetRefreshTokenCookie sends the refresh token only to the refresh endpoint.
func (t *CookieTransport) SetRefreshTokenCookie(c *fiber.Ctx, token string, maxAgeSeconds int) {
	c.Cookie(t.cookie(RefreshTokenCookie, token, RefreshTokenCookiePath, maxAgeSeconds))
}

// AccessTokenFromCookie returns the access token cookie value, if any.
func (t *CookieTransport) AccessTokenFromCookie(c *fiber.Ctx) (string, bool) {
	return cookieValue(c, AccessTokenCookie)
}

// RefreshTokenFromCookie returns the refresh token cookie value, if any.
func (t *CookieTransport) RefreshTokenFromCookie(c *fiber.Ctx) (string, bool) {
	return cookieValue(c, RefreshTokenCookie)
}

// HasAccessTokenCookie reports whether the request carries an access token cookie.
func (t *CookieTransport) HasAccessTokenCookie(c *fiber.Ctx) bool {
	_, ok := t.AccessTokenFromCookie(c)
	return ok
}

// HasRefreshTokenCookie reports whether the request carries a refresh token cookie.
func (t *CookieTransport) HasRefreshTokenCookie(c *fiber.Ctx) bool {
	_, ok := t.RefreshTokenFromCookie(c)
	return ok
}

// ClearAccessTokenCookie expires the access token cookie.
func (t *CookieTransport) ClearAccessTokenCookie(c *fiber.Ctx) {
	c.Cookie(t.expired(AccessTokenCookie, AccessTokenCookiePath))
}

// ClearRefreshTokenCookie expires the refresh token cookie. The path must
// match the one used when it was set or browsers keep it.
func (t *CookieTransport) ClearRefreshTokenCookie(c *fiber.Ctx) {
	c.Cookie(t.expired(RefreshTokenCookie, RefreshTokenCookiePath))
}

// ClearAllTokenCookies expires both token cookies.
func (t *CookieTransport) ClearAllTokenCookies(c *fiber.Ctx) {
	t.ClearAccessTokenCookie(c)
	t.ClearRefreshTokenCookie(c)
}

func (t *CookieTransport) cookie(name, value, path string, maxAgeSeconds int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   t.domain,
		MaxAge:   maxAgeSeconds,
		Secure:   t.secure,
		HTTPOnly: true,
		SameSite: t.sameSite,
	}
}

// expired builds a cookie that browsers drop immediately. fasthttp omits
// Max-Age=0, so an epoch Expires is used instead.
func (t *CookieTransport) expired(name, path string) *fiber.Cookie {
	ck := t.cookie(name, "", path, 0)
	ck.Expires = time.Unix(0, 0)
	return ck
}

func cookieValue(c *fiber.Ctx, name string) (string, bool) {
	value := c.Cookies(name)
	return value, value != ""
}
