package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tkrcet/attendance-backend/internal/model"
	"github.com/tkrcet/attendance-backend/internal/response"
	"github.com/tkrcet/attendance-backend/internal/service"
	"github.com/tkrcet/attendance-backend/internal/validator"
)

// RosterHandler handles section and student management plus the read-only
// hierarchy the marking UI walks.
type RosterHandler struct {
	roster *service.RosterService
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(roster *service.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

// ListYears godoc
// GET /api/v1/roster/years
func (h *RosterHandler) ListYears(c *gin.Context) {
	years, err := h.roster.ListYears(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"years": years})
}

// ListDepartments godoc
// GET /api/v1/roster/years/:year/departments
func (h *RosterHandler) ListDepartments(c *gin.Context) {
	departments, err := h.roster.ListDepartments(c.Request.Context(), c.Param("year"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"departments": departments})
}

// ListSections godoc
// GET /api/v1/roster/years/:year/departments/:department/sections
func (h *RosterHandler) ListSections(c *gin.Context) {
	sections, err := h.roster.ListSections(c.Request.Context(), c.Param("year"), c.Param("department"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sections": sections})
}

// CreateSection godoc
// POST /api/v1/admin/sections
func (h *RosterHandler) CreateSection(c *gin.Context) {
	var req model.CreateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.roster.CreateSection(c.Request.Context(), &req)
	if errors.Is(err, service.ErrSectionExists) {
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"section": section})
}

// AddStudents godoc
// POST /api/v1/admin/sections/:year/:department/:section/students
// Bulk-adds students to a section. The batch is transactional.
func (h *RosterHandler) AddStudents(c *gin.Context) {
	var req model.AddStudentsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	students, err := h.roster.AddStudents(c.Request.Context(),
		c.Param("year"), c.Param("department"), c.Param("section"), &req)
	switch {
	case errors.Is(err, service.ErrSectionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	case errors.Is(err, service.ErrStudentExists):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	case err != nil:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"students": students})
}

// ListStudents godoc
// GET /api/v1/roster/sections/:year/:department/:section/students
func (h *RosterHandler) ListStudents(c *gin.Context) {
	students, err := h.roster.ListStudents(c.Request.Context(),
		c.Param("year"), c.Param("department"), c.Param("section"))
	if errors.Is(err, service.ErrSectionNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// GetStudent godoc
// GET /api/v1/roster/students/:rollNumber
func (h *RosterHandler) GetStudent(c *gin.Context) {
	student, section, err := h.roster.GetStudent(c.Request.Context(), c.Param("rollNumber"))
	if errors.Is(err, service.ErrStudentNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student, "section": section})
}

// RemoveStudent godoc
// DELETE /api/v1/admin/students/:rollNumber
func (h *RosterHandler) RemoveStudent(c *gin.Context) {
	err := h.roster.RemoveStudent(c.Request.Context(), c.Param("rollNumber"))
	if errors.Is(err, service.ErrStudentNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "student removed"})
}

// ClearSection godoc
// DELETE /api/v1/admin/sections/:year/:department/:section/students
// Removes every student of a section; the section itself stays.
func (h *RosterHandler) ClearSection(c *gin.Context) {
	removed, err := h.roster.ClearSection(c.Request.Context(),
		c.Param("year"), c.Param("department"), c.Param("section"))
	if errors.Is(err, service.ErrSectionNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}

// UpsertTimetable godoc
// PUT /api/v1/admin/sections/:year/:department/:section/timetable
// Replaces the section's whole weekly timetable.
func (h *RosterHandler) UpsertTimetable(c *gin.Context) {
	var req model.UpsertTimetableRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.roster.ReplaceTimetable(c.Request.Context(),
		c.Param("year"), c.Param("department"), c.Param("section"), &req)
	if errors.Is(err, service.ErrSectionNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "timetable updated"})
}

// GetTimetable godoc
// GET /api/v1/roster/sections/:year/:department/:section/timetable
func (h *RosterHandler) GetTimetable(c *gin.Context) {
	days, err := h.roster.GetTimetable(c.Request.Context(),
		c.Param("year"), c.Param("department"), c.Param("section"))
	if errors.Is(err, service.ErrSectionNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"timetable": days})
}
