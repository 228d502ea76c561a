package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/domain/attendance"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.time_in, a.time_out, a.status,
	a.total_minutes, a.overtime_minutes, a.undertime_minutes, a.overridden,
	a.created_at, a.updated_at
`

const attendanceReturning = `
	id, employee_id, date, time_in, time_out, status,
	total_minutes, overtime_minutes, undertime_minutes, overridden,
	created_at, updated_at
`

func scanAttendanceDay(row pgx.Row) (attendance.AttendanceDay, error) {
	var rec attendance.AttendanceDay
	err := row.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.Date,
		&rec.TimeIn,
		&rec.TimeOut,
		&rec.Status,
		&rec.TotalMinutes,
		&rec.OvertimeMinutes,
		&rec.UndertimeMinutes,
		&rec.Overridden,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

// InsertIfAbsent implements attendance.AttendanceRepository. The unique
// index on (employee_id, date) makes concurrent submissions collapse to
// a single stored record.
func (r *attendanceRepositoryImpl) InsertIfAbsent(ctx context.Context, rec attendance.AttendanceDay) (attendance.AttendanceDay, bool, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO attendance_days (
			employee_id, date, time_in, time_out, status,
			total_minutes, overtime_minutes, undertime_minutes, overridden
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING ` + attendanceReturning + `
	`

	inserted, err := scanAttendanceDay(q.QueryRow(ctx, insertQuery,
		rec.EmployeeID,
		rec.Date.Format("2006-01-02"),
		rec.TimeIn,
		rec.TimeOut,
		rec.Status,
		rec.TotalMinutes,
		rec.OvertimeMinutes,
		rec.UndertimeMinutes,
		rec.Overridden,
	))
	if err == nil {
		return inserted, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.AttendanceDay{}, false, fmt.Errorf("insert attendance day: %w", err)
	}

	// Lost the race, another submission created the record first.
	existing, err := r.GetByEmployeeAndDate(ctx, rec.EmployeeID, rec.Date)
	if err != nil {
		return attendance.AttendanceDay{}, false, err
	}
	if existing == nil {
		return attendance.AttendanceDay{}, false, attendance.ErrRecordNotFound
	}
	return *existing, false, nil
}

// SetTimeOut implements attendance.AttendanceRepository. The stored
// time-out is write once and requires an open time-in.
func (r *attendanceRepositoryImpl) SetTimeOut(ctx context.Context, employeeID string, date time.Time, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE attendance_days
		SET time_out = $3, updated_at = NOW()
		WHERE employee_id = $1 AND date = $2
			AND time_in IS NOT NULL AND time_out IS NULL
	`

	tag, err := q.Exec(ctx, updateQuery, employeeID, date.Format("2006-01-02"), at)
	if err != nil {
		return false, fmt.Errorf("set time out: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateDerived implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateDerived(ctx context.Context, employeeID string, date time.Time, status attendance.Status, totalMinutes, overtimeMinutes, undertimeMinutes int) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE attendance_days
		SET status = $3, total_minutes = $4, overtime_minutes = $5,
			undertime_minutes = $6, updated_at = NOW()
		WHERE employee_id = $1 AND date = $2
	`

	tag, err := q.Exec(ctx, updateQuery, employeeID, date.Format("2006-01-02"), status, totalMinutes, overtimeMinutes, undertimeMinutes)
	if err != nil {
		return fmt.Errorf("update derived fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// UpdateRecord implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateRecord(ctx context.Context, rec attendance.AttendanceDay) error {
	q := GetQuerier(ctx, r.db)

	updateQuery := `
		UPDATE attendance_days
		SET time_in = $2, time_out = $3, status = $4, total_minutes = $5,
			overtime_minutes = $6, undertime_minutes = $7, overridden = $8,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, updateQuery,
		rec.ID,
		rec.TimeIn,
		rec.TimeOut,
		rec.Status,
		rec.TotalMinutes,
		rec.OvertimeMinutes,
		rec.UndertimeMinutes,
		rec.Overridden,
	)
	if err != nil {
		return fmt.Errorf("update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, e.full_name
		FROM attendance_days a
		LEFT JOIN employees e ON e.employee_code = a.employee_id
		WHERE a.id = $1
	`

	var rec attendance.AttendanceDay
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.Date,
		&rec.TimeIn,
		&rec.TimeOut,
		&rec.Status,
		&rec.TotalMinutes,
		&rec.OvertimeMinutes,
		&rec.UndertimeMinutes,
		&rec.Overridden,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceDay{}, attendance.ErrRecordNotFound
		}
		return attendance.AttendanceDay{}, fmt.Errorf("get attendance record: %w", err)
	}
	return rec, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_days a
		WHERE a.employee_id = $1 AND a.date = $2
	`

	rec, err := scanAttendanceDay(q.QueryRow(ctx, query, employeeID, date.Format("2006-01-02")))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attendance day: %w", err)
	}
	return &rec, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_days a
		WHERE a.employee_id = $1
		ORDER BY a.date DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list attendance days: %w", err)
	}
	defer rows.Close()

	return collectAttendanceDays(rows)
}

// ListByEmployeeRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_days a
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list attendance range: %w", err)
	}
	defer rows.Close()

	return collectAttendanceDays(rows)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceDay, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := " WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND a.employee_id = $%d", argPos)
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Date != nil {
		whereClause += fmt.Sprintf(" AND a.date = $%d", argPos)
		args = append(args, *filter.Date)
		argPos++
	}
	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND a.status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}

	countQuery := "SELECT COUNT(*) FROM attendance_days a" + whereClause

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count attendance records: %w", err)
	}

	query := `
		SELECT ` + attendanceColumns + `, e.full_name
		FROM attendance_days a
		LEFT JOIN employees e ON e.employee_code = a.employee_id` +
		whereClause +
		fmt.Sprintf(" ORDER BY a.date DESC, a.employee_id ASC LIMIT $%d OFFSET $%d", argPos, argPos+1)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceDay
	for rows.Next() {
		var rec attendance.AttendanceDay
		err := rows.Scan(
			&rec.ID,
			&rec.EmployeeID,
			&rec.Date,
			&rec.TimeIn,
			&rec.TimeOut,
			&rec.Status,
			&rec.TotalMinutes,
			&rec.OvertimeMinutes,
			&rec.UndertimeMinutes,
			&rec.Overridden,
			&rec.CreatedAt,
			&rec.UpdatedAt,
			&rec.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListRange(ctx context.Context, from, to time.Time) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, e.full_name
		FROM attendance_days a
		LEFT JOIN employees e ON e.employee_code = a.employee_id
		WHERE a.date BETWEEN $1 AND $2
		ORDER BY a.date ASC, a.employee_id ASC
	`

	rows, err := q.Query(ctx, query, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list attendance range: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceDay
	for rows.Next() {
		var rec attendance.AttendanceDay
		err := rows.Scan(
			&rec.ID,
			&rec.EmployeeID,
			&rec.Date,
			&rec.TimeIn,
			&rec.TimeOut,
			&rec.Status,
			&rec.TotalMinutes,
			&rec.OvertimeMinutes,
			&rec.UndertimeMinutes,
			&rec.Overridden,
			&rec.CreatedAt,
			&rec.UpdatedAt,
			&rec.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attendance day: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func collectAttendanceDays(rows pgx.Rows) ([]attendance.AttendanceDay, error) {
	var records []attendance.AttendanceDay
	for rows.Next() {
		rec, err := scanAttendanceDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance day: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
