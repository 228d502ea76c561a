package auth

import (
	"context"
)

// AuthService defines login and password recovery for both portals.
type AuthService interface {
	// Login authenticates an employee by email and password.
	Login(ctx context.Context, req LoginRequest) (LoginResponse, string, error)

	// AdminLogin authenticates an admin account.
	AdminLogin(ctx context.Context, req LoginRequest) (LoginResponse, string, error)

	// Refresh exchanges a valid refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error)

	// Logout revokes the presented refresh token.
	Logout(ctx context.Context, refreshToken string) error

	// ForgotPassword issues a single-use reset token and mails the link.
	// Unknown addresses are not distinguishable from known ones.
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error

	// ResetPassword consumes a reset token and stores the new password hash.
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}
