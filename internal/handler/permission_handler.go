package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tkrcet/attendance-backend/internal/middleware"
	"github.com/tkrcet/attendance-backend/internal/model"
	"github.com/tkrcet/attendance-backend/internal/response"
	"github.com/tkrcet/attendance-backend/internal/service"
	"github.com/tkrcet/attendance-backend/internal/validator"
)

// PermissionHandler handles edit-permission grants and the can-edit probe.
type PermissionHandler struct {
	permissions *service.PermissionService
}

// NewPermissionHandler creates a new PermissionHandler.
func NewPermissionHandler(permissions *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissions: permissions}
}

// Grant godoc
// POST /api/v1/admin/permissions
// Grants a faculty member a time-windowed edit permission for one section
// scope. Overlapping grants are allowed.
func (h *PermissionHandler) Grant(c *gin.Context) {
	var req model.GrantPermissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	grant, err := h.permissions.Grant(c.Request.Context(), &req)
	if errors.Is(err, service.ErrInvalidRange) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidRange)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"permission": grant})
}

// List godoc
// GET /api/v1/admin/permissions/:facultyId
func (h *PermissionHandler) List(c *gin.Context) {
	grants, err := h.permissions.List(c.Request.Context(), c.Param("facultyId"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"permissions": grants})
}

// Revoke godoc
// DELETE /api/v1/admin/permissions/:id
func (h *PermissionHandler) Revoke(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	err = h.permissions.Revoke(c.Request.Context(), id)
	if errors.Is(err, service.ErrGrantNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "permission revoked"})
}

// CanEdit godoc
// GET /api/v1/faculty/permissions/can-edit?date=&year=&department=&section=
// Lets the marking UI probe whether the edit toggle should be enabled.
// Date defaults to today when omitted.
func (h *PermissionHandler) CanEdit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	year, department, section := c.Query("year"), c.Query("department"), c.Query("section")
	if year == "" || department == "" || section == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	allowed, grant, err := h.permissions.CanEdit(c.Request.Context(),
		claims.FacultyID, c.Query("date"), year, department, section)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"canEdit": allowed, "permission": grant})
}
