package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid identifier or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("an account with this identifier already exists")
	// ErrSignupPartialFailure means the identity exists but its profile could not be written.
	ErrSignupPartialFailure = errors.New("registration could not be completed, contact an administrator")
)
