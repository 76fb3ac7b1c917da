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

// AuthHandler handles faculty and student login.
type AuthHandler struct {
	faculty *service.FacultyService
	roster  *service.RosterService
	auth    *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(faculty *service.FacultyService, roster *service.RosterService, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{faculty: faculty, roster: roster, auth: auth}
}

// FacultyLogin godoc
// POST /api/v1/auth/faculty/login
func (h *AuthHandler) FacultyLogin(c *gin.Context) {
	var req model.FacultyLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, f, err := h.faculty.Login(c.Request.Context(), &req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token, "faculty": f})
}

// StudentLogin godoc
// POST /api/v1/auth/student/login
// Students hold one session at a time; a second login is rejected until
// the session expires or an admin resets it.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req model.StudentLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, student, section, err := h.roster.StudentLogin(c.Request.Context(), &req)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	case errors.Is(err, service.ErrSessionAlreadyActive):
		response.Fail(c, http.StatusConflict, response.ErrSessionActive)
		return
	case err != nil:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token, "student": student, "section": section})
}

// ResetStudentSession godoc
// POST /api/v1/admin/students/:rollNumber/reset-session
// Clears a student's active session so they can log in again.
func (h *AuthHandler) ResetStudentSession(c *gin.Context) {
	rollNumber := c.Param("rollNumber")

	if err := h.auth.ResetStudentSession(c.Request.Context(), rollNumber); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "session reset"})
}
