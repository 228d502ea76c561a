package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/config"
	"github.com/dailylog/dailylog-backend-go/internal/domain/attendance"
	"github.com/dailylog/dailylog-backend-go/internal/domain/employee"
	"github.com/dailylog/dailylog-backend-go/internal/domain/report"
	attendancesvc "github.com/dailylog/dailylog-backend-go/internal/service/attendance"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

var sixtyMinutes = decimal.NewFromInt(60)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	workday        config.WorkdayConfig

	now func() time.Time
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	workday config.WorkdayConfig,
) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		workday:        workday,
		now:            time.Now,
	}
}

func (s *ReportServiceImpl) employeeFromClaims(ctx context.Context) (string, error) {
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

// MonthlySummary implements report.ReportService.
func (s *ReportServiceImpl) MonthlySummary(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlySummary, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlySummary{}, err
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		var err error
		employeeID, err = s.employeeFromClaims(ctx)
		if err != nil {
			return report.MonthlySummary{}, err
		}
	}

	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, employeeID)
	if err != nil {
		return report.MonthlySummary{}, err
	}

	loc := s.workday.Location()
	monthStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)

	recs, err := s.attendanceRepo.ListByEmployeeRange(ctx, employeeID, monthStart, monthEnd)
	if err != nil {
		return report.MonthlySummary{}, fmt.Errorf("failed to load records: %w", err)
	}

	summary := s.aggregate(employeeID, req.Month, req.Year, recs)
	summary.EmployeeName = emp.FullName
	return summary, nil
}

// aggregate rolls one employee's month up from its persisted day records.
// Working days without a record produce synthetic absent rows that are
// never written back.
func (s *ReportServiceImpl) aggregate(employeeID string, month, year int, recs []attendance.AttendanceDay) report.MonthlySummary {
	loc := s.workday.Location()
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)

	today := s.now().In(loc)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	byDate := make(map[string]attendance.AttendanceDay, len(recs))
	for _, rec := range recs {
		byDate[rec.Date.In(loc).Format("2006-01-02")] = rec
	}

	var workingDays, uncovered int
	var syntheticDays []attendance.DayResponse
	for day := monthStart; !day.After(monthEnd) && !day.After(today); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		workingDays++
		if _, ok := byDate[day.Format("2006-01-02")]; !ok {
			uncovered++
			syntheticDays = append(syntheticDays, syntheticAbsent(employeeID, day))
		}
	}

	var workedDays, persistedAbsent int
	var totalMin, overtimeMin, undertimeMin int
	days := make([]attendance.DayResponse, 0, len(recs)+len(syntheticDays))
	for _, rec := range recs {
		if rec.Status == attendance.StatusAbsent {
			persistedAbsent++
		} else {
			if rec.TimeIn != nil {
				workedDays++
			}
			totalMin += rec.TotalMinutes
			overtimeMin += rec.OvertimeMinutes
			undertimeMin += rec.UndertimeMinutes
		}
		days = append(days, s.toDayResponse(rec))
	}

	days = append(days, syntheticDays...)
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	rate := decimal.Zero
	if workingDays > 0 {
		rate = decimal.NewFromInt(int64(workedDays) * 100).
			Div(decimal.NewFromInt(int64(workingDays))).
			Round(2)
	}

	return report.MonthlySummary{
		EmployeeID:     employeeID,
		Month:          month,
		Year:           year,
		WorkingDays:    workingDays,
		WorkedDays:     workedDays,
		Absences:       persistedAbsent + uncovered,
		TotalHours:     minutesToDecimalHours(totalMin),
		OvertimeHours:  minutesToDecimalHours(overtimeMin),
		UndertimeHours: minutesToDecimalHours(undertimeMin),
		AttendanceRate: rate.StringFixed(2),
		Days:           days,
	}
}

// Overview implements report.ReportService.
func (s *ReportServiceImpl) Overview(ctx context.Context) (report.OverviewResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return report.OverviewResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	loc := s.workday.Location()
	now := s.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	todayRecs, err := s.attendanceRepo.ListRange(ctx, today, today)
	if err != nil {
		return report.OverviewResponse{}, fmt.Errorf("failed to load today's records: %w", err)
	}

	absencesToday := 0
	for _, rec := range todayRecs {
		if rec.Status == attendance.StatusAbsent {
			absencesToday++
		}
	}

	// Week starts Sunday, matching the portal's overview card.
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	weekRecs, err := s.attendanceRepo.ListRange(ctx, weekStart, today)
	if err != nil {
		return report.OverviewResponse{}, fmt.Errorf("failed to load week records: %w", err)
	}

	overtimeMin := 0
	for _, rec := range weekRecs {
		overtimeMin += rec.OvertimeMinutes
	}

	return report.OverviewResponse{
		TotalEmployees:   len(employees),
		AbsencesToday:    absencesToday,
		OvertimeThisWeek: minutesToDecimalHours(overtimeMin),
	}, nil
}

func syntheticAbsent(employeeID string, day time.Time) attendance.DayResponse {
	return attendance.DayResponse{
		EmployeeID:        employeeID,
		Date:              day.Format("2006-01-02"),
		Status:            string(attendance.StatusAbsent),
		TotalHours:        attendancesvc.FormatHoursMinutes(0),
		TotalHoursDecimal: "0.00",
		OvertimeHours:     "0.00",
		UndertimeHours:    "0.00",
	}
}

func (s *ReportServiceImpl) toDayResponse(rec attendance.AttendanceDay) attendance.DayResponse {
	resp := attendance.DayResponse{
		ID:                rec.ID,
		EmployeeID:        rec.EmployeeID,
		Date:              rec.Date.In(s.workday.Location()).Format("2006-01-02"),
		TimeIn:            s.instantString(rec.TimeIn),
		TimeOut:           s.instantString(rec.TimeOut),
		Status:            string(rec.Status),
		TotalHours:        attendancesvc.FormatHoursMinutes(attendancesvc.MinutesToDuration(rec.TotalMinutes)),
		TotalHoursDecimal: minutesToDecimalHours(rec.TotalMinutes),
		OvertimeHours:     minutesToDecimalHours(rec.OvertimeMinutes),
		UndertimeHours:    minutesToDecimalHours(rec.UndertimeMinutes),
	}
	if rec.EmployeeName != nil {
		resp.EmployeeName = *rec.EmployeeName
	}
	return resp
}

func (s *ReportServiceImpl) instantString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(s.workday.Location()).Format("2006-01-02 15:04:05")
	return &formatted
}

func minutesToDecimalHours(minutes int) string {
	return decimal.NewFromInt(int64(minutes)).Div(sixtyMinutes).Round(2).StringFixed(2)
}
