package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hashed)
	assert.True(t, CheckPassword(hashed, "correct horse"))
	assert.False(t, CheckPassword(hashed, "battery staple"))
}

func TestHashPassword_RejectsUnusableInput(t *testing.T) {
	_, err := HashPassword("  ", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = HashPassword(strings.Repeat("p", MaxPasswordLength+1), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCheckPassword_EmptyHashNeverMatches(t *testing.T) {
	assert.False(t, CheckPassword("", ""))
	assert.False(t, CheckPassword("", "anything"))
}
