package auth

import (
	"context"
)

// AdminRepository defines data access for admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin Admin) (Admin, error)
	GetByEmail(ctx context.Context, email string) (Admin, error)
	GetByID(ctx context.Context, id string) (Admin, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
