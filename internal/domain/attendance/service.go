package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance day records.
// TimeIn, TimeOut and Recompute are idempotent with respect to the
// persisted pair; Update, Override and Reset are administrative.
type AttendanceService interface {
	// TimeIn records a time-in for the authenticated employee. A second
	// submission on the same local day is a no-op returning the existing record.
	TimeIn(ctx context.Context, req TimeInRequest) (DayResponse, error)

	// TimeOut records a time-out once per day; repeated submissions return
	// the existing record unchanged.
	TimeOut(ctx context.Context, req TimeOutRequest) (DayResponse, error)

	// Today returns the authenticated employee's record for the current
	// local day, refreshing its derived fields.
	Today(ctx context.Context) (DayResponse, error)

	// Recompute re-runs classification for one of the authenticated
	// employee's days and persists the result.
	Recompute(ctx context.Context, req RecomputeRequest) (DayResponse, error)

	// MyRecords returns all records of the authenticated employee, newest first.
	MyRecords(ctx context.Context) ([]DayResponse, error)

	// List retrieves records across employees (admin).
	List(ctx context.Context, filter ListFilter) (ListRecordsResponse, error)

	// Get retrieves a single record by ID (admin).
	Get(ctx context.Context, id string) (DayResponse, error)

	// Update replaces a record's pair and reclassifies it (admin).
	Update(ctx context.Context, req UpdateRecordRequest) (DayResponse, error)

	// Override replaces the computed status/overtime verbatim (admin).
	Override(ctx context.Context, req OverrideRequest) (DayResponse, error)

	// Reset clears the record in place and marks it RESET (admin).
	Reset(ctx context.Context, id string) (DayResponse, error)
}
