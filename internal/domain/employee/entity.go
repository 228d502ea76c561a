package employee

import (
	"time"
)

type Employee struct {
	ID            string
	EmployeeCode  string
	FullName      string
	Email         string
	ContactNumber string
	Address       *string
	Department    string
	Position      string
	PasswordHash  string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
