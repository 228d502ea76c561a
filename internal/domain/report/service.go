package report

import (
	"context"
	"io"
)

// ReportService builds reporting rollups from persisted attendance days.
type ReportService interface {
	// MonthlySummary aggregates one employee's month, backfilling
	// synthetic absent days for uncovered working days.
	MonthlySummary(ctx context.Context, req MonthlyReportRequest) (MonthlySummary, error)

	// Overview aggregates today's absences and this week's overtime
	// across all employees (admin).
	Overview(ctx context.Context) (OverviewResponse, error)

	// ExportMonthlyExcel writes a spreadsheet of all employees' records
	// for the month to w and returns a suggested file name.
	ExportMonthlyExcel(ctx context.Context, req MonthlyExportRequest, w io.Writer) (string, error)
}
