package model

import "time"

// Faculty roles. Admins use the same login flow as faculty but unlock
// management endpoints.
const (
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// Faculty is a teaching staff member. FacultyID is the human-facing
// identifier used for login and for edit-permission grants.
type Faculty struct {
	ID           int       `json:"id"`
	FacultyID    string    `json:"facultyId"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Department   string    `json:"department"`
	Subject      string    `json:"subject"`
	Designation  string    `json:"designation"`
	PhoneNumber  *string   `json:"phoneNumber,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateFacultyRequest is the payload for registering a faculty member.
type CreateFacultyRequest struct {
	FacultyID   string                `json:"facultyId" binding:"required,min=2,max=20"`
	Name        string                `json:"name" binding:"required,min=2,max=100"`
	Role        string                `json:"role" binding:"required,oneof=faculty admin"`
	Department  string                `json:"department" binding:"required,min=1,max=30"`
	Subject     string                `json:"subject" binding:"required,min=1,max=60"`
	Designation string                `json:"designation" binding:"required,min=1,max=60"`
	PhoneNumber *string               `json:"phoneNumber"`
	Password    string                `json:"password" binding:"required,min=6,max=128"`
	Timetable   []FacultyTimetableDay `json:"timetable" binding:"required,min=1,dive"`
}

// UpdateFacultyRequest updates a faculty member. Password and timetable are
// optional; omitting them leaves the stored values untouched.
type UpdateFacultyRequest struct {
	Name        string                `json:"name" binding:"required,min=2,max=100"`
	Role        string                `json:"role" binding:"required,oneof=faculty admin"`
	Department  string                `json:"department" binding:"required,min=1,max=30"`
	Subject     string                `json:"subject" binding:"required,min=1,max=60"`
	Designation string                `json:"designation" binding:"required,min=1,max=60"`
	PhoneNumber *string               `json:"phoneNumber"`
	Password    string                `json:"password" binding:"omitempty,min=6,max=128"`
	Timetable   []FacultyTimetableDay `json:"timetable" binding:"omitempty,dive"`
}

// FacultyLoginRequest is the payload for faculty authentication.
type FacultyLoginRequest struct {
	FacultyID string `json:"facultyId" binding:"required"`
	Password  string `json:"password" binding:"required"`
}
