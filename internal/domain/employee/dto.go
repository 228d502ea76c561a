package employee

import (
	"github.com/dailylog/dailylog-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	FullName      string  `json:"full_name"`
	EmployeeCode  string  `json:"employee_code,omitempty"`
	Email         string  `json:"email"`
	ContactNumber string  `json:"contact_number"`
	Address       *string `json:"address,omitempty"`
	Department    string  `json:"department"`
	Position      string  `json:"position"`
	Password      string  `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}
	if len(r.FullName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if !validator.IsEmpty(r.ContactNumber) && !validator.IsValidPhoneNumber(r.ContactNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "contact_number",
			Message: "contact_number format is invalid",
		})
	}

	if validator.IsEmpty(r.Department) {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department is required",
		})
	}

	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{
			Field:   "position",
			Message: "position is required",
		})
	}

	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateProfileRequest struct {
	ID            string  `json:"-"`
	FullName      *string `json:"full_name,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
	Address       *string `json:"address,omitempty"`
	Department    *string `json:"department,omitempty"`
	Position      *string `json:"position,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be empty",
		})
	}

	if r.ContactNumber != nil && !validator.IsEmpty(*r.ContactNumber) && !validator.IsValidPhoneNumber(*r.ContactNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "contact_number",
			Message: "contact_number format is invalid",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID            string  `json:"id"`
	EmployeeCode  string  `json:"employee_code"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	ContactNumber string  `json:"contact_number,omitempty"`
	Address       *string `json:"address,omitempty"`
	Department    string  `json:"department"`
	Position      string  `json:"position"`
	IsActive      bool    `json:"is_active"`
}
