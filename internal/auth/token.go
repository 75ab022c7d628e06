package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/stay-auth/internal/domain"
)

var signingMethod = jwt.SigningMethodHS512

// Claims describes the JWT payload.
type Claims struct {
	UserID    int64            `json:"userId"`
	TokenType domain.TokenType `json:"tokenType"`
	Roles     string           `json:"roles"`
	HotelID   *int64           `json:"hotelId,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a login.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenCodec issues and verifies signed tokens. It holds no mutable state
// and can be shared between goroutines.
type TokenCodec struct {
	key   *SigningKey
	now   func() time.Time
	newID func() string
}

// NewTokenCodec builds a codec over the provisioned key.
func NewTokenCodec(key *SigningKey) *TokenCodec {
	return &TokenCodec{key: key, now: time.Now, newID: uuid.NewString}
}

// Key exposes the lifetimes configured on the signing key.
func (tc *TokenCodec) Key() *SigningKey {
	return tc.key
}

// Issue builds and signs a token of the given type for the user.
func (tc *TokenCodec) Issue(user domain.User, tokenType domain.TokenType) (string, error) {
	token, _, err := tc.issue(user, tokenType)
	return token, err
}

// IssuePair issues an access token and a refresh token for the user.
func (tc *TokenCodec) IssuePair(user domain.User) (TokenPair, error) {
	access, accessExp, err := tc.issue(user, domain.TokenTypeAccess)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, refreshExp, err := tc.issue(user, domain.TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (tc *TokenCodec) issue(user domain.User, tokenType domain.TokenType) (string, time.Time, error) {
	if !tokenType.Valid() {
		return "", time.Time{}, fmt.Errorf("%w: unknown token type %q", ErrInvalidArgument, tokenType)
	}
	if user.Email == "" || user.ID <= 0 {
		return "", time.Time{}, fmt.Errorf("%w: user id and email are required", ErrInvalidArgument)
	}

	issuedAt := tc.now()
	expiresAt := issuedAt.Add(tc.key.TTL(tokenType))
	claims := &Claims{
		UserID:    user.ID,
		TokenType: tokenType,
		Roles:     SerializeRoles(user.Roles),
		HotelID:   user.HotelID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tc.newID(),
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(tc.key.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Parse verifies the signature and structure of a token. Expiry is not checked.
func (tc *TokenCodec) Parse(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return tc.key.secret, nil
	}, jwt.WithValidMethods([]string{signingMethod.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	switch {
	case claims.Subject == "":
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	case claims.UserID <= 0:
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	case !claims.TokenType.Valid():
		return nil, fmt.Errorf("%w: unknown token type", ErrInvalidToken)
	case claims.ExpiresAt == nil || claims.IssuedAt == nil:
		return nil, fmt.Errorf("%w: missing timestamps", ErrInvalidToken)
	}
	return claims, nil
}

// Verify parses the token and checks expiry and token type.
// The returned error wraps ErrInvalidToken, ErrExpiredToken or ErrWrongTokenType.
func (tc *TokenCodec) Verify(tokenStr string, expected domain.TokenType) (*Claims, error) {
	claims, err := tc.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt.Time.Before(tc.now()) {
		return nil, ErrExpiredToken
	}
	if claims.TokenType != expected {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrWrongTokenType, expected, claims.TokenType)
	}
	return claims, nil
}

// IsExpired reports whether the token is past its expiry. Unparsable tokens count as expired.
func (tc *TokenCodec) IsExpired(tokenStr string) bool {
	claims, err := tc.Parse(tokenStr)
	if err != nil {
		return true
	}
	return claims.ExpiresAt.Time.Before(tc.now())
}

// Validate reports whether the token parses and has not expired.
func (tc *TokenCodec) Validate(tokenStr string) bool {
	claims, err := tc.Parse(tokenStr)
	if err != nil {
		return false
	}
	return !claims.ExpiresAt.Time.Before(tc.now())
}

// ValidateAccessToken is Validate restricted to access tokens.
func (tc *TokenCodec) ValidateAccessToken(tokenStr string) bool {
	_, err := tc.Verify(tokenStr, domain.TokenTypeAccess)
	return err == nil
}

// ValidateRefreshToken is Validate restricted to refresh tokens.
func (tc *TokenCodec) ValidateRefreshToken(tokenStr string) bool {
	_, err := tc.Verify(tokenStr, domain.TokenTypeRefresh)
	return err == nil
}

// ExtractSubject returns the subject (email) claim.
func (tc *TokenCodec) ExtractSubject(tokenStr string) (string, error) {
	claims, err := tc.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractUserID returns the userId claim.
func (tc *TokenCodec) ExtractUserID(tokenStr string) (int64, error) {
	claims, err := tc.Parse(tokenStr)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// ExtractRoles returns the raw comma separated roles claim.
func (tc *TokenCodec) ExtractRoles(tokenStr string) (string, error) {
	claims, err := tc.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Roles, nil
}

// ExtractHotelID returns the hotelId claim, nil when the account has no hotel.
func (tc *TokenCodec) ExtractHotelID(tokenStr string) (*int64, error) {
	claims, err := tc.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	return claims.HotelID, nil
}

// ExtractTokenType returns the tokenType claim.
func (tc *TokenCodec) ExtractTokenType(tokenStr string) (domain.TokenType, error) {
	claims, err := tc.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.TokenType, nil
}

// ExtractJTI returns the token identifier.
func (tc *TokenCodec) ExtractJTI(tokenStr string) (string, error) {
	claims, err := tc.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.ID, nil
}

// ExtractExpiresAt returns the expiry timestamp.
func (tc *TokenCodec) ExtractExpiresAt(tokenStr string) (time.Time, error) {
	claims, err := tc.Parse(tokenStr)
	if err != nil {
		return time.Time{}, err
	}
	return claims.ExpiresAt.Time, nil
}

// IsTokenError reports whether err belongs to the token validation taxonomy.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrExpiredToken) || errors.Is(err, ErrWrongTokenType)
}
