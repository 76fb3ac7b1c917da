package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tkrcet/attendance-backend/internal/middleware"
	"github.com/tkrcet/attendance-backend/internal/model"
	"github.com/tkrcet/attendance-backend/internal/response"
	"github.com/tkrcet/attendance-backend/internal/service"
	"github.com/tkrcet/attendance-backend/internal/validator"
)

// FacultyHandler handles faculty management and the faculty member's own
// timetable views.
type FacultyHandler struct {
	faculty *service.FacultyService
}

// NewFacultyHandler creates a new FacultyHandler.
func NewFacultyHandler(faculty *service.FacultyService) *FacultyHandler {
	return &FacultyHandler{faculty: faculty}
}

// Create godoc
// POST /api/v1/admin/faculty
func (h *FacultyHandler) Create(c *gin.Context) {
	var req model.CreateFacultyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	f, err := h.faculty.Create(c.Request.Context(), &req)
	if errors.Is(err, service.ErrFacultyExists) {
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"faculty": f})
}

// List godoc
// GET /api/v1/admin/faculty?department=
func (h *FacultyHandler) List(c *gin.Context) {
	list, err := h.faculty.List(c.Request.Context(), c.Query("department"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"faculty": list})
}

// Get godoc
// GET /api/v1/admin/faculty/:facultyId
func (h *FacultyHandler) Get(c *gin.Context) {
	f, timetable, err := h.faculty.Get(c.Request.Context(), c.Param("facultyId"))
	if errors.Is(err, service.ErrFacultyNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"faculty": f, "timetable": timetable})
}

// Update godoc
// PUT /api/v1/admin/faculty/:facultyId
func (h *FacultyHandler) Update(c *gin.Context) {
	var req model.UpdateFacultyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	f, err := h.faculty.Update(c.Request.Context(), c.Param("facultyId"), &req)
	if errors.Is(err, service.ErrFacultyNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"faculty": f})
}

// Delete godoc
// DELETE /api/v1/admin/faculty/:facultyId
func (h *FacultyHandler) Delete(c *gin.Context) {
	err := h.faculty.Delete(c.Request.Context(), c.Param("facultyId"))
	if errors.Is(err, service.ErrFacultyNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "faculty deleted"})
}

// Me godoc
// GET /api/v1/faculty/me
// Returns the logged-in faculty member's profile and timetable.
func (h *FacultyHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)

	f, timetable, err := h.faculty.Get(c.Request.Context(), claims.FacultyID)
	if errors.Is(err, service.ErrFacultyNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"faculty": f, "timetable": timetable})
}

// MyClasses godoc
// GET /api/v1/faculty/classes
// Returns the distinct class scopes the faculty member teaches.
func (h *FacultyHandler) MyClasses(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classes, err := h.faculty.Classes(c.Request.Context(), claims.FacultyID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// TodayClasses godoc
// GET /api/v1/faculty/classes/today
// Returns the faculty member's taught slots for today's weekday.
func (h *FacultyHandler) TodayClasses(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classes, err := h.faculty.TodayClasses(c.Request.Context(), claims.FacultyID, time.Now())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}
