package auth

import (
	"time"
)

// Role separates the employee portal from the admin portal.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

type Admin struct {
	ID           string
	AdminID      string
	FullName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
