package report

import (
	"testing"
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/config"
	"github.com/dailylog/dailylog-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, now time.Time) *ReportServiceImpl {
	t.Helper()
	wd, err := config.NewWorkdayConfig(8*time.Hour, 17*time.Hour, time.Minute, 2*time.Hour, "Asia/Manila")
	require.NoError(t, err)

	svc := NewReportService(nil, nil, wd).(*ReportServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

// workingDaysOf lists the Mon-Fri dates of a month in order.
func workingDaysOf(loc *time.Location, year int, month time.Month) []time.Time {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, -1)

	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			days = append(days, day)
		}
	}
	return days
}

func workedRecord(employeeID string, day time.Time) attendance.AttendanceDay {
	in := day.Add(8 * time.Hour)
	out := day.Add(17 * time.Hour)
	return attendance.AttendanceDay{
		ID:           "rec-" + day.Format("20060102"),
		EmployeeID:   employeeID,
		Date:         day,
		TimeIn:       &in,
		TimeOut:      &out,
		Status:       attendance.StatusOnTime,
		TotalMinutes: 9 * 60,
	}
}

func TestAggregateMonthlySummary(t *testing.T) {
	now := time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	loc := svc.workday.Location()

	// September 2025 has 22 working days, all in the past.
	working := workingDaysOf(loc, 2025, time.September)
	require.Len(t, working, 22)

	var recs []attendance.AttendanceDay
	for _, day := range working[:18] {
		recs = append(recs, workedRecord("EMP-1", day))
	}
	recs = append(recs, attendance.AttendanceDay{
		ID:         "rec-absent",
		EmployeeID: "EMP-1",
		Date:       working[18],
		Status:     attendance.StatusAbsent,
	})

	summary := svc.aggregate("EMP-1", 9, 2025, recs)

	assert.Equal(t, 22, summary.WorkingDays)
	assert.Equal(t, 18, summary.WorkedDays)
	// One persisted absence plus three uncovered working days.
	assert.Equal(t, 4, summary.Absences)
	assert.Equal(t, "81.82", summary.AttendanceRate)
	assert.Equal(t, "162.00", summary.TotalHours)
	// 19 persisted rows plus 3 synthetic absent rows.
	assert.Len(t, summary.Days, 22)
}

func TestAggregateAbsentRecordContributesNoHours(t *testing.T) {
	now := time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	loc := svc.workday.Location()

	working := workingDaysOf(loc, 2025, time.September)
	in := working[0].Add(10*time.Hour + 30*time.Minute)
	recs := []attendance.AttendanceDay{
		{
			ID:           "rec-late-absent",
			EmployeeID:   "EMP-1",
			Date:         working[0],
			TimeIn:       &in,
			Status:       attendance.StatusAbsent,
			TotalMinutes: 0,
		},
	}

	summary := svc.aggregate("EMP-1", 9, 2025, recs)

	// A record reclassified to absent still has a time-in but counts as
	// neither worked nor toward hour totals.
	assert.Equal(t, 0, summary.WorkedDays)
	assert.Equal(t, 22, summary.Absences)
	assert.Equal(t, "0.00", summary.TotalHours)
}

func TestAggregateEmptyMonthAhead(t *testing.T) {
	// Aggregating a month that has not started yet.
	now := time.Date(2025, time.August, 20, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	summary := svc.aggregate("EMP-1", 9, 2025, nil)

	assert.Equal(t, 0, summary.WorkingDays)
	assert.Equal(t, 0, summary.Absences)
	assert.Equal(t, "0.00", summary.AttendanceRate)
	assert.Empty(t, summary.Days)
}

func TestAggregatePartialMonth(t *testing.T) {
	// Mid-month: only elapsed working days count.
	now := time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	loc := svc.workday.Location()

	working := workingDaysOf(loc, 2025, time.September)
	var recs []attendance.AttendanceDay
	for _, day := range working[:5] {
		recs = append(recs, workedRecord("EMP-1", day))
	}

	summary := svc.aggregate("EMP-1", 9, 2025, recs)

	// Sept 1-10 2025 spans 8 working days (the 6th/7th are a weekend).
	assert.Equal(t, 8, summary.WorkingDays)
	assert.Equal(t, 5, summary.WorkedDays)
	assert.Equal(t, 3, summary.Absences)
	assert.Equal(t, "62.50", summary.AttendanceRate)
}

func TestMinutesToDecimalHours(t *testing.T) {
	assert.Equal(t, "0.00", minutesToDecimalHours(0))
	assert.Equal(t, "1.50", minutesToDecimalHours(90))
	assert.Equal(t, "10.58", minutesToDecimalHours(635))
}
