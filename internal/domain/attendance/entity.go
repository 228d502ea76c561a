package attendance

import (
	"time"
)

// Status is the derived label of an attendance day. Except for StatusReset
// every value is produced by classification and never stored independently
// of the time-in/time-out pair it was derived from.
type Status string

const (
	StatusAbsent    Status = "ABSENT"
	StatusOnTime    Status = "ON_TIME"
	StatusLate      Status = "LATE"
	StatusOvertime  Status = "OVERTIME"
	StatusUndertime Status = "UNDERTIME"
	StatusReset     Status = "RESET"
)

var AllStatuses = []string{
	string(StatusAbsent),
	string(StatusOnTime),
	string(StatusLate),
	string(StatusOvertime),
	string(StatusUndertime),
	string(StatusReset),
}

func (s Status) Valid() bool {
	switch s {
	case StatusAbsent, StatusOnTime, StatusLate, StatusOvertime, StatusUndertime, StatusReset:
		return true
	}
	return false
}

// AttendanceDay is one employee's record for one local calendar day.
// Date is midnight of that day in the deployment timezone and forms the
// natural key together with EmployeeID. TimeIn/TimeOut are absolute
// instants stored in UTC. The duration fields are minutes, always derived
// from the pair by classification, zeroed by an administrative reset.
type AttendanceDay struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	TimeIn           *time.Time
	TimeOut          *time.Time
	Status           Status
	TotalMinutes     int
	OvertimeMinutes  int
	UndertimeMinutes int
	// Overridden marks records whose status or overtime was supplied by
	// an admin; recompute passes leave them untouched.
	Overridden bool
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined for display
	EmployeeName *string
}
