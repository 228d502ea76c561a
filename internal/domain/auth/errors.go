package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrTokenAlreadyUsed    = errors.New("token has already been used")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrAdminNotFound       = errors.New("admin not found")
)
