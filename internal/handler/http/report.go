package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dailylog/dailylog-backend-go/internal/domain/report"
	"github.com/dailylog/dailylog-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	MonthlySummary(w http.ResponseWriter, r *http.Request)
	Overview(w http.ResponseWriter, r *http.Request)
	ExportMonthly(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func parseMonthYear(r *http.Request) (month, year int, err error) {
	query := r.URL.Query()

	month, err = strconv.Atoi(query.Get("month"))
	if err != nil {
		return 0, 0, fmt.Errorf("month must be a number")
	}
	year, err = strconv.Atoi(query.Get("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("year must be a number")
	}
	return month, year, nil
}

// MonthlySummary implements ReportHandler.
func (h *reportHandlerImpl) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	month, year, err := parseMonthYear(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	req := report.MonthlyReportRequest{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Month:      month,
		Year:       year,
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.MonthlySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Overview implements ReportHandler.
func (h *reportHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Overview(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportMonthly implements ReportHandler. The workbook is built in
// memory first so a failed export still returns a JSON error body.
func (h *reportHandlerImpl) ExportMonthly(w http.ResponseWriter, r *http.Request) {
	month, year, err := parseMonthYear(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	req := report.MonthlyExportRequest{Month: month, Year: year}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	filename, err := h.reportService.ExportMonthlyExcel(r.Context(), req, &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write export to response", "error", err)
	}
}
