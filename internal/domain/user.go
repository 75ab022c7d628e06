package domain

import "time"

// User is the account record tokens are issued for.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Roles        []Role
	HotelID      *int64
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasHotel reports whether the account is associated with a hotel.
func (u *User) HasHotel() bool {
	return u.HotelID != nil
}
