package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dailylog/dailylog-backend-go/internal/domain/employee"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, employee_code, full_name, email, contact_number, address,
	department, position, password_hash, is_active, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID,
		&emp.EmployeeCode,
		&emp.FullName,
		&emp.Email,
		&emp.ContactNumber,
		&emp.Address,
		&emp.Department,
		&emp.Position,
		&emp.PasswordHash,
		&emp.IsActive,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO employees (
			employee_code, full_name, email, contact_number, address,
			department, position, password_hash, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + employeeColumns + `
	`

	created, err := scanEmployee(q.QueryRow(ctx, insertQuery,
		emp.EmployeeCode,
		emp.FullName,
		emp.Email,
		emp.ContactNumber,
		emp.Address,
		emp.Department,
		emp.Position,
		emp.PasswordHash,
		emp.IsActive,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return emp, nil
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_code = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("get employee by code: %w", err)
	}
	return emp, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE LOWER(email) = LOWER($1)`

	emp, err := scanEmployee(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("get employee by email: %w", err)
	}
	return emp, nil
}

// Exists implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Exists(ctx context.Context, code string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE employee_code = $1 AND is_active = TRUE)`

	var exists bool
	if err := q.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("check employee exists: %w", err)
	}
	return exists, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY full_name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE employees
		SET full_name = $2, contact_number = $3, address = $4,
			department = $5, position = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, updateQuery,
		emp.ID,
		emp.FullName,
		emp.ContactNumber,
		emp.Address,
		emp.Department,
		emp.Position,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdatePassword implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE employees
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, updateQuery, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update employee password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Deactivate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE employees
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, updateQuery, id)
	if err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
