package domain

import "time"

// TokenType differentiates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "ACCESS"
	TokenTypeRefresh TokenType = "REFRESH"
)

// Valid reports whether t is a known token type.
func (t TokenType) Valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// Role is a bare role name as stored and transported, e.g. HOTEL_ADMIN.
type Role string

const (
	RoleGuest      Role = "GUEST"
	RoleStaff      Role = "STAFF"
	RoleHotelAdmin Role = "HOTEL_ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
)

// RefreshToken is the stored record of an issued refresh token. Only the hash is kept.
type RefreshToken struct {
	ID         int64
	TokenHash  string
	UserID     int64
	ExpiresAt  time.Time
	DeviceInfo string
	IPAddress  string
	CreatedAt  time.Time
}

// Expired reports whether the record is past its expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
