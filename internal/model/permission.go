package model

import (
	"time"

	"github.com/google/uuid"
)

// EditPermission is a time-windowed grant allowing a faculty member to edit
// historical attendance for one exact section scope. The date range bounds
// which target days may be edited; the time range bounds when the edit may
// happen. Start/end times are compared as absolute instants against "now" —
// documented behavior carried over from the system this replaces.
type EditPermission struct {
	ID         uuid.UUID `json:"id"`
	FacultyID  string    `json:"facultyId"`
	Year       string    `json:"year"`
	Department string    `json:"department"`
	Section    string    `json:"section"`
	StartDate  string    `json:"startDate"` // YYYY-MM-DD, inclusive
	EndDate    string    `json:"endDate"`   // YYYY-MM-DD, inclusive
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	CreatedAt  time.Time `json:"created_at"`
}

// GrantPermissionRequest creates an edit-permission grant. Overlapping
// grants are allowed; the authorizer only needs one match.
type GrantPermissionRequest struct {
	FacultyID  string    `json:"facultyId" binding:"required"`
	Year       string    `json:"year" binding:"required"`
	Department string    `json:"department" binding:"required"`
	Section    string    `json:"section" binding:"required"`
	StartDate  string    `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate    string    `json:"endDate" binding:"required,datetime=2006-01-02"`
	StartTime  time.Time `json:"startTime" binding:"required"`
	EndTime    time.Time `json:"endTime" binding:"required"`
}
