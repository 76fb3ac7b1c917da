package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tkrcet/attendance-backend/internal/response"
	"github.com/tkrcet/attendance-backend/internal/service"
)

// NotifyHandler triggers absentee alert batches and exposes the delivery
// log.
type NotifyHandler struct {
	notify *service.NotifyService
}

// NewNotifyHandler creates a new NotifyHandler.
func NewNotifyHandler(notify *service.NotifyService) *NotifyHandler {
	return &NotifyHandler{notify: notify}
}

// TriggerAlerts godoc
// POST /api/v1/admin/notifications/absentees?date=&async=
// Runs the absentee SMS batch for a date (today when omitted). With
// async=true the batch is queued for the worker and the call returns
// immediately.
func (h *NotifyHandler) TriggerAlerts(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	if c.Query("async") == "true" {
		if err := h.notify.QueueAbsenteeAlerts(c.Request.Context(), date); err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		response.Success(c, http.StatusAccepted, gin.H{"message": "alert batch queued", "date": date})
		return
	}

	results, err := h.notify.SendAbsenteeAlerts(c.Request.Context(), date)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"date": date, "results": results})
}

// SentLog godoc
// GET /api/v1/admin/notifications/absentees/:date
// Returns the SMS delivery log for one day.
func (h *NotifyHandler) SentLog(c *gin.Context) {
	log, err := h.notify.SentLog(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"messages": log})
}
