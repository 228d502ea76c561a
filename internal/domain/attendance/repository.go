package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance day records.
// The write methods are conditional so that concurrent submissions for the
// same (employee, day) key collapse to at most one record and a stored
// time-out is never overwritten.
type AttendanceRepository interface {
	// InsertIfAbsent creates the day record unless one already exists for
	// (EmployeeID, Date). Returns the persisted record and whether this
	// call inserted it.
	InsertIfAbsent(ctx context.Context, rec AttendanceDay) (AttendanceDay, bool, error)

	// SetTimeOut records the time-out only when none is stored yet.
	// Returns false when no record exists or time-out was already set.
	SetTimeOut(ctx context.Context, employeeID string, date time.Time, at time.Time) (bool, error)

	// UpdateDerived persists the classifier output for one day record.
	UpdateDerived(ctx context.Context, employeeID string, date time.Time, status Status, totalMinutes, overtimeMinutes, undertimeMinutes int) error

	// UpdateRecord replaces the stored pair and derived fields, admin edit path.
	UpdateRecord(ctx context.Context, rec AttendanceDay) error

	GetByID(ctx context.Context, id string) (AttendanceDay, error)

	// GetByEmployeeAndDate returns nil when no record exists for the day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceDay, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]AttendanceDay, error)

	// ListByEmployeeRange returns records with Date in [from, to] ordered by Date.
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceDay, error)

	// List retrieves the admin-wide view with filters and pagination.
	List(ctx context.Context, filter ListFilter) ([]AttendanceDay, int64, error)

	// ListRange returns all records with Date in [from, to], all employees.
	ListRange(ctx context.Context, from, to time.Time) ([]AttendanceDay, error)
}
