package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/config"
	"github.com/dailylog/dailylog-backend-go/internal/domain/attendance"
	"github.com/dailylog/dailylog-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	classifier     *Classifier
	workday        config.WorkdayConfig

	// now is the event clock, replaceable in tests.
	now func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	workday config.WorkdayConfig,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		classifier:     NewClassifier(workday),
		workday:        workday,
		now:            time.Now,
	}
}

// timePtrToString renders a stored instant in the deployment timezone.
func (a *AttendanceServiceImpl) timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.In(a.workday.Location()).Format("2006-01-02 15:04:05")
	return &format
}

func (a *AttendanceServiceImpl) employeeFromClaims(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	return employeeID, nil
}

// actorFromClaims identifies who performed an administrative action, for
// the audit log.
func (a *AttendanceServiceImpl) actorFromClaims(ctx context.Context) string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "unknown"
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	return "unknown"
}

// localDay truncates an instant to midnight of its local calendar day.
func (a *AttendanceServiceImpl) localDay(at time.Time) time.Time {
	local := at.In(a.workday.Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, a.workday.Location())
}

// eventInstant resolves an optional RFC3339 override to the event clock.
func (a *AttendanceServiceImpl) eventInstant(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return a.now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	return t.UTC(), nil
}

// TimeIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TimeIn(ctx context.Context, req attendance.TimeInRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	employeeID, err := a.employeeFromClaims(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	at, err := a.eventInstant(req.At)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	return a.applyTimeIn(ctx, employeeID, at)
}

func (a *AttendanceServiceImpl) applyTimeIn(ctx context.Context, employeeID string, at time.Time) (attendance.DayResponse, error) {
	exists, err := a.employeeRepo.Exists(ctx, employeeID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to check employee: %w", err)
	}
	if !exists {
		return attendance.DayResponse{}, employee.ErrEmployeeNotFound
	}

	day := a.localDay(at)
	res := a.classifier.Classify(day, &at, nil)

	rec := attendance.AttendanceDay{
		EmployeeID:       employeeID,
		Date:             day,
		TimeIn:           &at,
		Status:           res.Status,
		TotalMinutes:     DurationToMinutes(res.Total),
		OvertimeMinutes:  DurationToMinutes(res.Overtime),
		UndertimeMinutes: DurationToMinutes(res.Undertime),
	}

	persisted, inserted, err := a.attendanceRepo.InsertIfAbsent(ctx, rec)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to record time-in: %w", err)
	}

	if !inserted {
		// Duplicate submission for the day; the stored record stands.
		slog.Debug("duplicate time-in ignored", "employee_id", employeeID, "date", day.Format("2006-01-02"))
	}

	return a.toResponse(persisted), nil
}

// TimeOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TimeOut(ctx context.Context, req attendance.TimeOutRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	employeeID, err := a.employeeFromClaims(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	at, err := a.eventInstant(req.At)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	return a.applyTimeOut(ctx, employeeID, at)
}

func (a *AttendanceServiceImpl) applyTimeOut(ctx context.Context, employeeID string, at time.Time) (attendance.DayResponse, error) {
	day := a.localDay(at)

	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to load day record: %w", err)
	}
	if rec == nil || rec.TimeIn == nil {
		// Time-out needs an open time-in; a reset record has neither.
		return attendance.DayResponse{}, attendance.ErrNotTimedIn
	}

	if rec.TimeOut != nil {
		// Time-out is write-once; repeated submissions are no-ops.
		return a.toResponse(*rec), nil
	}

	set, err := a.attendanceRepo.SetTimeOut(ctx, employeeID, day, at)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to record time-out: %w", err)
	}
	if !set {
		// Lost a race against another submission; return what won.
		current, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, day)
		if err != nil {
			return attendance.DayResponse{}, fmt.Errorf("failed to reload day record: %w", err)
		}
		if current == nil {
			return attendance.DayResponse{}, attendance.ErrRecordNotFound
		}
		return a.toResponse(*current), nil
	}

	return a.recomputeDay(ctx, employeeID, day)
}

// Today implements attendance.AttendanceService. A day without a record
// yields an in-memory absent entry; nothing is persisted for it.
func (a *AttendanceServiceImpl) Today(ctx context.Context) (attendance.DayResponse, error) {
	employeeID, err := a.employeeFromClaims(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	day := a.localDay(a.now())

	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to load day record: %w", err)
	}
	if rec == nil {
		return attendance.DayResponse{
			EmployeeID: employeeID,
			Date:       day.Format("2006-01-02"),
			Status:     string(attendance.StatusAbsent),
			TotalHours: FormatHoursMinutes(0),
		}, nil
	}

	return a.recomputeDay(ctx, employeeID, day)
}

// Recompute implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Recompute(ctx context.Context, req attendance.RecomputeRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	employeeID, err := a.employeeFromClaims(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, a.workday.Location())
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("invalid date: %w", err)
	}

	return a.recomputeDay(ctx, employeeID, day)
}

// recomputeDay re-derives one day's fields from its persisted pair and
// stores them. Running it any number of times yields the same record.
// Overridden and reset records keep their administrative values.
func (a *AttendanceServiceImpl) recomputeDay(ctx context.Context, employeeID string, day time.Time) (attendance.DayResponse, error) {
	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to load day record: %w", err)
	}
	if rec == nil {
		return attendance.DayResponse{}, attendance.ErrRecordNotFound
	}

	if rec.Overridden || rec.Status == attendance.StatusReset {
		return a.toResponse(*rec), nil
	}

	res := a.classifier.Classify(rec.Date, rec.TimeIn, rec.TimeOut)

	updated := *rec
	updated.Status = res.Status
	updated.TotalMinutes = DurationToMinutes(res.Total)
	updated.OvertimeMinutes = DurationToMinutes(res.Overtime)
	updated.UndertimeMinutes = DurationToMinutes(res.Undertime)

	if err := a.attendanceRepo.UpdateDerived(ctx, employeeID, day, updated.Status,
		updated.TotalMinutes, updated.OvertimeMinutes, updated.UndertimeMinutes); err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to persist derived fields: %w", err)
	}

	return a.toResponse(updated), nil
}

// MyRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MyRecords(ctx context.Context) ([]attendance.DayResponse, error) {
	employeeID, err := a.employeeFromClaims(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := a.attendanceRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	responses := make([]attendance.DayResponse, 0, len(recs))
	for _, rec := range recs {
		responses = append(responses, a.toResponse(rec))
	}
	return responses, nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.ListFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	recs, total, err := a.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list records: %w", err)
	}

	responses := make([]attendance.DayResponse, 0, len(recs))
	for _, rec := range recs {
		responses = append(responses, a.toResponse(rec))
	}

	return attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

// Get implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.DayResponse, error) {
	rec, err := a.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	return a.toResponse(rec), nil
}

// Update implements attendance.AttendanceService, the admin edit path:
// the stored pair is replaced and reclassified, then explicit status or
// overtime values are applied verbatim on top.
func (a *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateRecordRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	rec, err := a.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	timeIn, err := a.parseDayInstant(req.TimeIn, rec.Date)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	timeOut, err := a.parseDayInstant(req.TimeOut, rec.Date)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	if timeIn == nil && timeOut != nil {
		return attendance.DayResponse{}, attendance.ErrNotTimedIn
	}

	rec.TimeIn = timeIn
	rec.TimeOut = timeOut

	res := a.classifier.Classify(rec.Date, rec.TimeIn, rec.TimeOut)
	rec.Status = res.Status
	rec.TotalMinutes = DurationToMinutes(res.Total)
	rec.OvertimeMinutes = DurationToMinutes(res.Overtime)
	rec.UndertimeMinutes = DurationToMinutes(res.Undertime)
	rec.Overridden = false

	applyOverrideValues(&rec, req.Status, req.OvertimeHours)

	if err := a.attendanceRepo.UpdateRecord(ctx, rec); err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to update record: %w", err)
	}

	slog.Info("attendance record edited",
		"actor", a.actorFromClaims(ctx),
		"record_id", rec.ID,
		"employee_id", rec.EmployeeID,
		"status", rec.Status,
	)

	return a.toResponse(rec), nil
}

// Override implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Override(ctx context.Context, req attendance.OverrideRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	rec, err := a.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	applyOverrideValues(&rec, req.Status, req.OvertimeHours)

	if err := a.attendanceRepo.UpdateRecord(ctx, rec); err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to override record: %w", err)
	}

	slog.Info("attendance record overridden",
		"actor", a.actorFromClaims(ctx),
		"record_id", rec.ID,
		"employee_id", rec.EmployeeID,
		"status", rec.Status,
	)

	return a.toResponse(rec), nil
}

// Reset implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Reset(ctx context.Context, id string) (attendance.DayResponse, error) {
	rec, err := a.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	rec.TimeIn = nil
	rec.TimeOut = nil
	rec.Status = attendance.StatusReset
	rec.TotalMinutes = 0
	rec.OvertimeMinutes = 0
	rec.UndertimeMinutes = 0
	rec.Overridden = true

	if err := a.attendanceRepo.UpdateRecord(ctx, rec); err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to reset record: %w", err)
	}

	slog.Info("attendance record reset",
		"actor", a.actorFromClaims(ctx),
		"record_id", rec.ID,
		"employee_id", rec.EmployeeID,
	)

	return a.toResponse(rec), nil
}

// applyOverrideValues writes admin-supplied status/overtime verbatim and
// marks the record so recompute passes leave it alone.
func applyOverrideValues(rec *attendance.AttendanceDay, status *string, overtime *string) {
	if status != nil && strings.TrimSpace(*status) != "" {
		rec.Status = attendance.Status(strings.ToUpper(*status))
		rec.Overridden = true
	}
	if overtime != nil && strings.TrimSpace(*overtime) != "" {
		if hours, err := strconv.ParseFloat(*overtime, 64); err == nil {
			rec.OvertimeMinutes = int(math.Round(hours * 60))
			rec.Overridden = true
		}
	}
}

// parseDayInstant parses an optional admin-supplied instant and verifies
// it falls inside the record's local day.
func (a *AttendanceServiceImpl) parseDayInstant(raw *string, day time.Time) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}
	t = t.UTC()

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, a.workday.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	local := t.In(a.workday.Location())
	if local.Before(dayStart) || !local.Before(dayEnd) {
		return nil, attendance.ErrInstantOutOfDay
	}

	return &t, nil
}

func (a *AttendanceServiceImpl) toResponse(rec attendance.AttendanceDay) attendance.DayResponse {
	resp := attendance.DayResponse{
		ID:                rec.ID,
		EmployeeID:        rec.EmployeeID,
		Date:              rec.Date.Format("2006-01-02"),
		TimeIn:            a.timePtrToString(rec.TimeIn),
		TimeOut:           a.timePtrToString(rec.TimeOut),
		Status:            string(rec.Status),
		TotalHours:        FormatHoursMinutes(MinutesToDuration(rec.TotalMinutes)),
		TotalHoursDecimal: FormatDecimalHours(MinutesToDuration(rec.TotalMinutes)),
		OvertimeHours:     FormatDecimalHours(MinutesToDuration(rec.OvertimeMinutes)),
		UndertimeHours:    FormatDecimalHours(MinutesToDuration(rec.UndertimeMinutes)),
	}
	if rec.EmployeeName != nil {
		resp.EmployeeName = *rec.EmployeeName
	}
	return resp
}
