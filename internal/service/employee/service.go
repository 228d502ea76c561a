package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dailylog/dailylog-backend-go/internal/domain/employee"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/database"
	"github.com/dailylog/dailylog-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	db           *database.DB
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(db *database.DB, employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		db:           db,
		employeeRepo: employeeRepo,
	}
}

// Register implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Register(ctx context.Context, req employee.RegisterRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.employeeRepo.GetByEmail(ctx, req.Email); err == nil {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	} else if !errors.Is(err, employee.ErrEmployeeNotFound) && !errors.Is(err, pgx.ErrNoRows) {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
	}

	code := req.EmployeeCode
	if code == "" {
		code = generateEmployeeCode()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	emp := employee.Employee{
		EmployeeCode:  code,
		FullName:      req.FullName,
		Email:         strings.ToLower(req.Email),
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		Department:    req.Department,
		Position:      req.Position,
		PasswordHash:  string(hash),
		IsActive:      true,
	}

	// The code check and the insert share a transaction so a concurrent
	// registration with the same code cannot slip between them.
	var created employee.Employee
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if req.EmployeeCode != "" {
			exists, err := s.employeeRepo.Exists(txCtx, code)
			if err != nil {
				return fmt.Errorf("failed to check employee code: %w", err)
			}
			if exists {
				return employee.ErrEmployeeCodeExists
			}
		}

		var err error
		created, err = s.employeeRepo.Create(txCtx, emp)
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return toResponse(created), nil
}

// generateEmployeeCode builds a short unique directory code the way the
// portal does when an admin leaves the field blank.
func generateEmployeeCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "EMP-" + strings.ToUpper(raw[:8])
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toResponse(emp), nil
}

// Profile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Profile(ctx context.Context) (employee.EmployeeResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	code, ok := claims["employee_id"].(string)
	if !ok || code == "" {
		return employee.EmployeeResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, code)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, toResponse(emp))
	}
	return responses, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.FullName != nil {
		emp.FullName = *req.FullName
	}
	if req.ContactNumber != nil {
		emp.ContactNumber = *req.ContactNumber
	}
	if req.Address != nil {
		emp.Address = req.Address
	}
	if req.Department != nil {
		emp.Department = *req.Department
	}
	if req.Position != nil {
		emp.Position = *req.Position
	}

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return toResponse(emp), nil
}

// Deactivate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, id string) error {
	if _, err := s.employeeRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.employeeRepo.Deactivate(ctx, id)
}

func toResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:            emp.ID,
		EmployeeCode:  emp.EmployeeCode,
		FullName:      emp.FullName,
		Email:         emp.Email,
		ContactNumber: emp.ContactNumber,
		Address:       emp.Address,
		Department:    emp.Department,
		Position:      emp.Position,
		IsActive:      emp.IsActive,
	}
}
