package employee

import (
	"context"
)

// EmployeeRepository defines data access for the employee directory.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)

	GetByID(ctx context.Context, id string) (Employee, error)

	GetByEmployeeCode(ctx context.Context, code string) (Employee, error)

	GetByEmail(ctx context.Context, email string) (Employee, error)

	// Exists reports whether an active employee carries the given code.
	Exists(ctx context.Context, code string) (bool, error)

	List(ctx context.Context) ([]Employee, error)

	Update(ctx context.Context, emp Employee) error

	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	// Deactivate soft-deletes the account; records are never deleted.
	Deactivate(ctx context.Context, id string) error
}
