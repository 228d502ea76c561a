package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/domain/auth"
	"github.com/dailylog/dailylog-backend-go/internal/domain/employee"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/jwt"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

// ResetTokenTTL bounds how long a password reset link stays valid.
const ResetTokenTTL = 15 * time.Minute

type EmailSender interface {
	SendPasswordReset(to, resetLink, expiresAt string) error
}

type AuthServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	adminRepo    auth.AdminRepository
	jwtService   jwt.Service
	resetTokens  *token.Store
	emailService EmailSender
	frontendURL  string
	now          func() time.Time
}

func NewAuthService(
	employeeRepo employee.EmployeeRepository,
	adminRepo auth.AdminRepository,
	jwtService jwt.Service,
	resetTokens *token.Store,
	emailService EmailSender,
	frontendURL string,
) auth.AuthService {
	return &AuthServiceImpl{
		employeeRepo: employeeRepo,
		adminRepo:    adminRepo,
		jwtService:   jwtService,
		resetTokens:  resetTokens,
		emailService: emailService,
		frontendURL:  frontendURL,
		now:          time.Now,
	}
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, string, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, "", err
	}

	emp, err := s.employeeRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.LoginResponse{}, "", auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, "", fmt.Errorf("failed to look up employee: %w", err)
	}

	if !emp.IsActive {
		return auth.LoginResponse{}, "", employee.ErrEmployeeInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, "", auth.ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(emp.ID, emp.Email, emp.EmployeeCode, auth.RoleEmployee)
	if err != nil {
		return auth.LoginResponse{}, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(emp.ID, auth.RoleEmployee)
	if err != nil {
		return auth.LoginResponse{}, "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	slog.Info("employee logged in", "employee_id", emp.EmployeeCode)

	return auth.LoginResponse{
		AccessToken:           accessToken,
		ExpiresAt:             expiresAt,
		Role:                  string(auth.RoleEmployee),
		DisplayName:           emp.FullName,
		RefreshTokenExpiresAt: refreshExpiresAt,
	}, refreshToken, nil
}

// AdminLogin implements auth.AuthService.
func (s *AuthServiceImpl) AdminLogin(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, string, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, "", err
	}

	admin, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrAdminNotFound) {
			return auth.LoginResponse{}, "", auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, "", fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, "", auth.ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(admin.ID, admin.Email, "", auth.RoleAdmin)
	if err != nil {
		return auth.LoginResponse{}, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(admin.ID, auth.RoleAdmin)
	if err != nil {
		return auth.LoginResponse{}, "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	slog.Info("admin logged in", "admin_id", admin.AdminID)

	return auth.LoginResponse{
		AccessToken:           accessToken,
		ExpiresAt:             expiresAt,
		Role:                  string(auth.RoleAdmin),
		DisplayName:           admin.FullName,
		RefreshTokenExpiresAt: refreshExpiresAt,
	}, refreshToken, nil
}

// Refresh implements auth.AuthService.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.RefreshResponse, error) {
	if s.jwtService.IsTokenRevoked(refreshToken) {
		return auth.RefreshResponse{}, auth.ErrRefreshTokenRevoked
	}

	subjectID, role, err := s.jwtService.DecodeRefreshToken(refreshToken)
	if err != nil {
		return auth.RefreshResponse{}, auth.ErrInvalidToken
	}

	var accessToken string
	var expiresAt int64

	switch role {
	case auth.RoleAdmin:
		admin, err := s.adminRepo.GetByID(ctx, subjectID)
		if err != nil {
			return auth.RefreshResponse{}, auth.ErrInvalidToken
		}
		accessToken, expiresAt, err = s.jwtService.GenerateAccessToken(admin.ID, admin.Email, "", auth.RoleAdmin)
		if err != nil {
			return auth.RefreshResponse{}, fmt.Errorf("failed to generate access token: %w", err)
		}
	default:
		emp, err := s.employeeRepo.GetByID(ctx, subjectID)
		if err != nil {
			return auth.RefreshResponse{}, auth.ErrInvalidToken
		}
		if !emp.IsActive {
			return auth.RefreshResponse{}, employee.ErrEmployeeInactive
		}
		accessToken, expiresAt, err = s.jwtService.GenerateAccessToken(emp.ID, emp.Email, emp.EmployeeCode, auth.RoleEmployee)
		if err != nil {
			return auth.RefreshResponse{}, fmt.Errorf("failed to generate access token: %w", err)
		}
	}

	return auth.RefreshResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	s.jwtService.RevokeToken(refreshToken)
	return nil
}

// ForgotPassword implements auth.AuthService. It always reports success
// to the caller so that addresses cannot be probed.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	emp, err := s.employeeRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up employee: %w", err)
	}

	resetToken, err := s.resetTokens.Issue(emp.Email)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, resetToken)
	expiresAt := s.now().Add(ResetTokenTTL).Format("15:04 MST")

	if err := s.emailService.SendPasswordReset(emp.Email, resetLink, expiresAt); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

// ResetPassword implements auth.AuthService.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	emailAddr, err := s.resetTokens.Consume(req.Token)
	if err != nil {
		return auth.ErrInvalidToken
	}

	emp, err := s.employeeRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("failed to look up employee: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.employeeRepo.UpdatePassword(ctx, emp.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password reset completed", "employee_id", emp.EmployeeCode)
	return nil
}
