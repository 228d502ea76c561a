package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Employee ID", "Employee Name", "Date", "Time In", "Time Out",
	"Status", "Total Hours", "Overtime Hours", "Undertime Hours",
}

// ExportMonthlyExcel implements report.ReportService. It writes one row
// per persisted record across all employees for the month.
func (s *ReportServiceImpl) ExportMonthlyExcel(ctx context.Context, req report.MonthlyExportRequest, w io.Writer) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	loc := s.workday.Location()
	monthStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)

	recs, err := s.attendanceRepo.ListRange(ctx, monthStart, monthEnd)
	if err != nil {
		return "", fmt.Errorf("failed to load records: %w", err)
	}
	if len(recs) == 0 {
		return "", report.ErrNoRecordsInPeriod
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return "", err
		}
	}

	for i, rec := range recs {
		day := s.toDayResponse(rec)
		values := []interface{}{
			day.EmployeeID,
			day.EmployeeName,
			day.Date,
			deref(day.TimeIn),
			deref(day.TimeOut),
			day.Status,
			day.TotalHoursDecimal,
			day.OvertimeHours,
			day.UndertimeHours,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return "", err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	filename := fmt.Sprintf("AttendanceReport_%04d%02d.xlsx", req.Year, req.Month)
	return filename, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
