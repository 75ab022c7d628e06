package auth

import "errors"

var (
	// ErrInvalidArgument reports a nil or blank input to the secret provisioner or hasher.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAlgorithmUnavailable reports a missing crypto primitive. It is fatal.
	ErrAlgorithmUnavailable = errors.New("digest algorithm unavailable")
	// ErrInvalidToken covers malformed tokens and signature mismatches.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken reports a well formed token past its expiry.
	ErrExpiredToken = errors.New("token expired")
	// ErrWrongTokenType reports a valid token presented for the wrong usage.
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrBadCredentials is returned by the credential provider for any failure.
	ErrBadCredentials = errors.New("bad credentials")
)
