package auth

import (
	"crypto"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// RefreshTokenHashLength is the length of a stored refresh token digest.
const RefreshTokenHashLength = sha256.Size * 2

// HashRefreshToken returns the lowercase hex SHA-256 digest stored in place of a refresh token.
func HashRefreshToken(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: refresh token must not be blank", ErrInvalidArgument)
	}
	if !crypto.SHA256.Available() {
		return "", ErrAlgorithmUnavailable
	}

	h := crypto.SHA256.New()
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MatchRefreshToken re-hashes a presented token and compares it with a stored digest.
func MatchRefreshToken(presented, storedHash string) bool {
	computed, err := HashRefreshToken(presented)
	if err != nil || len(storedHash) != RefreshTokenHashLength {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(storedHash))) == 1
}
