package model

import "time"

// EntryStatus is the per-student attendance state. There is no partial or
// tardy state; a student is either present or absent for a period.
type EntryStatus string

const (
	StatusPresent EntryStatus = "present"
	StatusAbsent  EntryStatus = "absent"
)

// Valid reports whether s is one of the two recognized statuses.
func (s EntryStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// AttendanceEntry is one student's state within a period record.
type AttendanceEntry struct {
	RollNumber string      `json:"rollNumber"`
	Name       string      `json:"name"`
	Status     EntryStatus `json:"status"`
}

// AttendanceKey is the natural composite key of an attendance record.
// At most one record exists per key; the store enforces this with a
// unique index.
type AttendanceKey struct {
	Date       string `json:"date"` // YYYY-MM-DD
	Period     int    `json:"period"`
	Year       string `json:"year"`
	Department string `json:"department"`
	Section    string `json:"section"`
}

// AttendanceRecord is one marked period for a section on a day.
// Entries are replaced wholesale on edit, never merged field by field.
// The serial ID doubles as insertion order, which the report views rely
// on for encounter-order grouping.
type AttendanceRecord struct {
	ID          int64             `json:"id"`
	Date        string            `json:"date"`
	Period      int               `json:"period"`
	Subject     string            `json:"subject"`
	Topic       string            `json:"topic"`
	Remarks     string            `json:"remarks,omitempty"`
	FacultyName string            `json:"faculty_name,omitempty"`
	PhoneNumber string            `json:"phone_number,omitempty"`
	Year        string            `json:"year"`
	Department  string            `json:"department"`
	Section     string            `json:"section"`
	Entries     []AttendanceEntry `json:"attendance"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Key returns the record's composite natural key.
func (r *AttendanceRecord) Key() AttendanceKey {
	return AttendanceKey{
		Date:       r.Date,
		Period:     r.Period,
		Year:       r.Year,
		Department: r.Department,
		Section:    r.Section,
	}
}

// MarkEntryRequest is one roster line in a mark request. Status is
// normalized to lowercase by the service before validation.
type MarkEntryRequest struct {
	RollNumber string `json:"rollNumber" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

// MarkAttendanceRequest is the payload for marking or editing attendance
// across one or more periods of a single day and section scope.
type MarkAttendanceRequest struct {
	Date        string             `json:"date" binding:"required,datetime=2006-01-02"`
	Periods     []int              `json:"periods" binding:"required,min=1,dive,min=1"`
	Subject     string             `json:"subject" binding:"required"`
	Topic       string             `json:"topic" binding:"required"`
	Remarks     string             `json:"remarks"`
	FacultyName string             `json:"facultyName"`
	PhoneNumber string             `json:"phoneNumber"`
	Year        string             `json:"year" binding:"required"`
	Department  string             `json:"department" binding:"required"`
	Section     string             `json:"section" binding:"required"`
	Attendance  []MarkEntryRequest `json:"attendance" binding:"required,min=1,dive"`
	Editing     bool               `json:"editing"`
}

// PeriodOutcomeStatus classifies the result of one period in a mark request.
type PeriodOutcomeStatus string

const (
	PeriodCreated  PeriodOutcomeStatus = "created"
	PeriodUpdated  PeriodOutcomeStatus = "updated"
	PeriodConflict PeriodOutcomeStatus = "conflict"
)

// PeriodOutcome is the per-period result of a mark request. Periods are
// processed independently so one failing period never rolls back the rest;
// callers inspect the list to see exactly what happened.
type PeriodOutcome struct {
	Period int                 `json:"period"`
	Status PeriodOutcomeStatus `json:"status"`
	Record *AttendanceRecord   `json:"record,omitempty"`
}
