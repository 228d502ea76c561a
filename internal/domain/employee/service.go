package employee

import (
	"context"
)

// EmployeeService defines business logic for the employee directory.
type EmployeeService interface {
	// Register creates an employee account (admin). A missing employee
	// code is generated server-side.
	Register(ctx context.Context, req RegisterRequest) (EmployeeResponse, error)

	Get(ctx context.Context, id string) (EmployeeResponse, error)

	// Profile returns the authenticated employee's own account.
	Profile(ctx context.Context) (EmployeeResponse, error)

	List(ctx context.Context) ([]EmployeeResponse, error)

	Update(ctx context.Context, req UpdateProfileRequest) (EmployeeResponse, error)

	// Deactivate disables login and clock events for the account (admin).
	Deactivate(ctx context.Context, id string) error
}
