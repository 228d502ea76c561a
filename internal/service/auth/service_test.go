package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/domain/auth"
	"github.com/dailylog/dailylog-backend-go/internal/domain/employee"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/jwt"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	passwords map[string]string
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		employees: make(map[string]employee.Employee),
		passwords: make(map[string]string),
	}
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	for _, emp := range r.employees {
		if emp.EmployeeCode == code {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	for _, emp := range r.employees {
		if emp.Email == email {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) Exists(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByEmployeeCode(ctx, code)
	return err == nil, nil
}

func (r *fakeEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		out = append(out, emp)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, emp employee.Employee) error {
	r.employees[emp.ID] = emp
	return nil
}

func (r *fakeEmployeeRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	emp, ok := r.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	emp.PasswordHash = passwordHash
	r.employees[id] = emp
	return nil
}

func (r *fakeEmployeeRepo) Deactivate(ctx context.Context, id string) error {
	emp, ok := r.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	emp.IsActive = false
	r.employees[id] = emp
	return nil
}

type fakeAdminRepo struct {
	admins map[string]auth.Admin
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin auth.Admin) (auth.Admin, error) {
	r.admins[admin.ID] = admin
	return admin, nil
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (auth.Admin, error) {
	for _, admin := range r.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return auth.Admin{}, auth.ErrAdminNotFound
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id string) (auth.Admin, error) {
	admin, ok := r.admins[id]
	if !ok {
		return auth.Admin{}, auth.ErrAdminNotFound
	}
	return admin, nil
}

func (r *fakeAdminRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	admin, ok := r.admins[id]
	if !ok {
		return auth.ErrAdminNotFound
	}
	admin.PasswordHash = passwordHash
	r.admins[id] = admin
	return nil
}

type fakeEmailSender struct {
	sentTo    []string
	lastLink  string
	lastError error
}

func (f *fakeEmailSender) SendPasswordReset(to, resetLink, expiresAt string) error {
	if f.lastError != nil {
		return f.lastError
	}
	f.sentTo = append(f.sentTo, to)
	f.lastLink = resetLink
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestService(t *testing.T) (*AuthServiceImpl, *fakeEmployeeRepo, *fakeAdminRepo, *fakeEmailSender) {
	t.Helper()

	employeeRepo := newFakeEmployeeRepo()
	employeeRepo.employees["emp-1"] = employee.Employee{
		ID:           "emp-1",
		EmployeeCode: "EMP-1",
		FullName:     "Jane Cruz",
		Email:        "jane@example.com",
		PasswordHash: mustHash(t, "sup3rsecret"),
		IsActive:     true,
	}

	adminRepo := &fakeAdminRepo{admins: map[string]auth.Admin{
		"adm-1": {
			ID:           "adm-1",
			AdminID:      "ADM-1",
			FullName:     "Site Admin",
			Email:        "admin@example.com",
			PasswordHash: mustHash(t, "adminpass123"),
		},
	}}

	sender := &fakeEmailSender{}
	jwtService := jwt.NewJWTService("test-secret", "15m", "168h")
	svc := NewAuthService(employeeRepo, adminRepo, jwtService, token.NewStore(ResetTokenTTL), sender, "http://localhost:3000").(*AuthServiceImpl)
	return svc, employeeRepo, adminRepo, sender
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	resp, refreshToken, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "employee", resp.Role)
	assert.Equal(t, "Jane Cruz", resp.DisplayName)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginInactiveEmployee(t *testing.T) {
	svc, employeeRepo, _, _ := newTestService(t)

	emp := employeeRepo.employees["emp-1"]
	emp.IsActive = false
	employeeRepo.employees["emp-1"] = emp

	_, _, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "sup3rsecret",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestAdminLoginSuccess(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	resp, refreshToken, err := svc.AdminLogin(context.Background(), auth.LoginRequest{
		Email:    "admin@example.com",
		Password: "adminpass123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "admin", resp.Role)
}

func TestRefreshRoundTrip(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, refreshToken, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefreshRevokedTokenRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, refreshToken, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), refreshToken))

	_, err = svc.Refresh(context.Background(), refreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	resp, _, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestForgotPasswordSendsMail(t *testing.T) {
	svc, _, _, sender := newTestService(t)

	err := svc.ForgotPassword(context.Background(), auth.ForgotPasswordRequest{Email: "jane@example.com"})
	require.NoError(t, err)
	require.Len(t, sender.sentTo, 1)
	assert.Equal(t, "jane@example.com", sender.sentTo[0])
	assert.Contains(t, sender.lastLink, "http://localhost:3000/reset-password?token=")
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc, _, _, sender := newTestService(t)

	err := svc.ForgotPassword(context.Background(), auth.ForgotPasswordRequest{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Empty(t, sender.sentTo)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, employeeRepo, _, _ := newTestService(t)

	resetToken, err := svc.resetTokens.Issue("jane@example.com")
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), auth.ResetPasswordRequest{
		Token:           resetToken,
		Password:        "newpassword1",
		ConfirmPassword: "newpassword1",
	})
	require.NoError(t, err)

	emp := employeeRepo.employees["emp-1"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte("newpassword1")))

	// The token is single use.
	err = svc.ResetPassword(context.Background(), auth.ResetPasswordRequest{
		Token:           resetToken,
		Password:        "anotherpass1",
		ConfirmPassword: "anotherpass1",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestResetPasswordMismatchedConfirmation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.ResetPassword(context.Background(), auth.ResetPasswordRequest{
		Token:           "some-token",
		Password:        "newpassword1",
		ConfirmPassword: "different1",
	})
	assert.Error(t, err)
}
