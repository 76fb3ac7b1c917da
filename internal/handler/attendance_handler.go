package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tkrcet/attendance-backend/internal/middleware"
	"github.com/tkrcet/attendance-backend/internal/model"
	"github.com/tkrcet/attendance-backend/internal/response"
	"github.com/tkrcet/attendance-backend/internal/service"
	"github.com/tkrcet/attendance-backend/internal/validator"
)

// AttendanceHandler handles marking, editing, and fetching attendance.
type AttendanceHandler struct {
	attendance  *service.AttendanceService
	permissions *service.PermissionService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService, permissions *service.PermissionService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, permissions: permissions}
}

// Mark godoc
// POST /api/v1/faculty/attendance
// Marks attendance for one or more periods, or edits existing records when
// editing is set. Editing historical records requires an active grant;
// admins bypass the grant check.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req model.MarkAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	if req.Editing && claims.Role != model.RoleAdmin {
		allowed, _, err := h.permissions.CanEdit(c.Request.Context(),
			claims.FacultyID, req.Date, req.Year, req.Department, req.Section)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if !allowed {
			response.Fail(c, http.StatusForbidden, response.ErrEditNotPermitted)
			return
		}
	}

	outcomes, marked, err := h.attendance.Mark(c.Request.Context(), &req)
	if err != nil {
		var dup *service.DuplicatePeriodError
		var invalid *service.InvalidEditTargetError
		var status *service.InvalidStatusError
		switch {
		case errors.As(err, &dup):
			response.FailWithMessage(c, http.StatusConflict, response.ErrDuplicatePeriod, dup.Error())
		case errors.As(err, &invalid):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidEditTarget, invalid.Error())
		case errors.As(err, &status):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidStatus, status.Error())
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	code := http.StatusCreated
	if req.Editing {
		code = http.StatusOK
	}
	response.Success(c, code, gin.H{"results": outcomes, "alreadyMarked": marked})
}

// Check godoc
// GET /api/v1/faculty/attendance/check?date=&year=&department=&section=
// Returns the marked periods and their records for a day and scope, so the
// marking UI can disable taken periods up front.
func (h *AttendanceHandler) Check(c *gin.Context) {
	date, year, department, section := scopeQuery(c)
	if date == "" || year == "" || department == "" || section == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	periods, records, err := h.attendance.Check(c.Request.Context(), date, year, department, section)
	if errors.Is(err, service.ErrNoRecords) {
		response.Success(c, http.StatusOK, gin.H{"markedPeriods": []int{}, "records": []model.AttendanceRecord{}})
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"markedPeriods": periods, "records": records})
}

// FetchByScope godoc
// GET /api/v1/faculty/attendance?date=&year=&department=&section=
// Returns a day's records for one section scope in insertion order.
func (h *AttendanceHandler) FetchByScope(c *gin.Context) {
	date, year, department, section := scopeQuery(c)
	if date == "" || year == "" || department == "" || section == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	records, err := h.attendance.FetchByScope(c.Request.Context(), date, year, department, section)
	if errors.Is(err, service.ErrNoRecords) {
		response.Fail(c, http.StatusNotFound, response.ErrNoRecords)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"records": records})
}

// FetchBySubject godoc
// GET /api/v1/faculty/attendance/subject?year=&department=&section=&subject=
// Returns every record of one subject within a section scope, across all
// dates, in insertion order.
func (h *AttendanceHandler) FetchBySubject(c *gin.Context) {
	year := c.Query("year")
	department := c.Query("department")
	section := c.Query("section")
	subject := c.Query("subject")
	if year == "" || department == "" || section == "" || subject == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	records, err := h.attendance.FetchBySubject(c.Request.Context(), year, department, section, subject)
	if errors.Is(err, service.ErrNoRecords) {
		response.Fail(c, http.StatusNotFound, response.ErrNoRecords)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"records": records})
}

// FetchByDate godoc
// GET /api/v1/admin/attendance/day/:date
// Returns every record of a calendar day across all sections.
func (h *AttendanceHandler) FetchByDate(c *gin.Context) {
	date := c.Param("date")

	records, err := h.attendance.FetchByDate(c.Request.Context(), date)
	if errors.Is(err, service.ErrNoRecords) {
		response.Fail(c, http.StatusNotFound, response.ErrNoRecords)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"records": records})
}

func scopeQuery(c *gin.Context) (date, year, department, section string) {
	return c.Query("date"), c.Query("year"), c.Query("department"), c.Query("section")
}
