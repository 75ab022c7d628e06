package auth

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the bcrypt input limit in bytes.
const MaxPasswordLength = 72

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// HashPassword hashes a plaintext password for storage in users.password.
// The service never creates accounts; this is the helper for seeding and admin
// tooling that writes that column.
func HashPassword(password string, cost int) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("%w: password must not be blank", ErrInvalidArgument)
	}
	if len(password) > MaxPasswordLength {
		return "", fmt.Errorf("%w: password exceeds %d bytes", ErrInvalidArgument, MaxPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
// An empty hash (federated account) never matches.
func CheckPassword(hashed, plain string) bool {
	if hashed == "" {
		BurnPasswordCheck(plain)
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// BurnPasswordCheck spends one bcrypt comparison on a throwaway hash so that
// unknown accounts take as long to reject as wrong passwords.
func BurnPasswordCheck(plain string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("stay-auth-dummy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
