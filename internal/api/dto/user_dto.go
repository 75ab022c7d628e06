package dto

import (
	"time"

	"github.com/spec-kit/stay-auth/internal/domain"
)

// LoginRequest payload for password login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone,omitempty"`
	Roles       []domain.Role `json:"roles"`
	HotelID     *int64        `json:"hotel_id,omitempty"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
}

// LoginResponse never carries tokens; they travel in HttpOnly cookies.
type LoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// RefreshResponse reports the lifetimes of the refreshed tokens.
type RefreshResponse struct {
	Message              string    `json:"message"`
	AccessTokenExpiresIn int       `json:"access_token_expires_in"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
}

// PrincipalResponse describes the authenticated caller.
type PrincipalResponse struct {
	Subject     string   `json:"subject"`
	UserID      int64    `json:"user_id"`
	Authorities []string `json:"authorities"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	roles := user.Roles
	if roles == nil {
		roles = []domain.Role{}
	}
	return UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		Roles:       roles,
		HotelID:     user.HotelID,
		LastLoginAt: user.LastLoginAt,
	}
}
