package attendance

import "errors"

// Attendance domain errors
var (
	// Clock event errors
	ErrNotTimedIn      = errors.New("no time-in recorded for this day")
	ErrInstantOutOfDay = errors.New("timestamp falls outside its attendance day")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
)
