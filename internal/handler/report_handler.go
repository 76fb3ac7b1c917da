package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tkrcet/attendance-backend/internal/middleware"
	"github.com/tkrcet/attendance-backend/internal/response"
	"github.com/tkrcet/attendance-backend/internal/service"
)

// ReportHandler serves the derived attendance views.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// SubjectTable godoc
// GET /api/v1/faculty/reports/subject?year=&department=&section=&subject=
// Returns the subject-wise P/A table with running percentages.
func (h *ReportHandler) SubjectTable(c *gin.Context) {
	year, department, section := c.Query("year"), c.Query("department"), c.Query("section")
	subject := c.Query("subject")
	if year == "" || department == "" || section == "" || subject == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	table, err := h.reports.SubjectTable(c.Request.Context(), year, department, section, subject)
	if errors.Is(err, service.ErrNoRecords) {
		response.Fail(c, http.StatusNotFound, response.ErrNoRecords)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, table)
}

// StudentSummary godoc
// GET /api/v1/faculty/reports/students/:rollNumber
// Returns one student's subject-wise and daily attendance summary.
func (h *ReportHandler) StudentSummary(c *gin.Context) {
	rollNumber := c.Param("rollNumber")

	summary, err := h.reports.StudentSummary(c.Request.Context(), rollNumber)
	if errors.Is(err, service.ErrNoRecords) {
		response.Fail(c, http.StatusNotFound, response.ErrNoRecords)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// MySummary godoc
// GET /api/v1/student/summary
// Returns the logged-in student's own attendance summary.
func (h *ReportHandler) MySummary(c *gin.Context) {
	claims := middleware.GetClaims(c)

	summary, err := h.reports.StudentSummary(c.Request.Context(), claims.RollNumber)
	if errors.Is(err, service.ErrNoRecords) {
		response.Fail(c, http.StatusNotFound, response.ErrNoRecords)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// SectionOverall godoc
// GET /api/v1/faculty/reports/overall?year=&department=&section=
// Returns cumulative attendance per roster student, zero rows included.
func (h *ReportHandler) SectionOverall(c *gin.Context) {
	year, department, section := c.Query("year"), c.Query("department"), c.Query("section")
	if year == "" || department == "" || section == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	rows, err := h.reports.SectionOverall(c.Request.Context(), year, department, section)
	if errors.Is(err, service.ErrSectionNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": rows})
}

// Absentees godoc
// GET /api/v1/admin/reports/absentees/:date
// Returns every student with at least one absent period on the date, with
// guardian contacts where known.
func (h *ReportHandler) Absentees(c *gin.Context) {
	date := c.Param("date")

	absentees, err := h.reports.AbsenteesForDate(c.Request.Context(), date)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"absentees": absentees})
}

// DaySummary godoc
// GET /api/v1/faculty/reports/day?date=&year=&department=&section=
// Returns the per-period present/absent breakdown for one section's day.
func (h *ReportHandler) DaySummary(c *gin.Context) {
	date, year, department, section := scopeQuery(c)
	if date == "" || year == "" || department == "" || section == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	buckets, err := h.reports.SectionDaySummary(c.Request.Context(), year, department, section, date)
	if errors.Is(err, service.ErrNoRecords) {
		response.Fail(c, http.StatusNotFound, response.ErrNoRecords)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"periods": buckets})
}
