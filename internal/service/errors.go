package service

import (
	"errors"
	"fmt"
	"strings"
)

// Common service errors. Validation and policy failures are deterministic
// and carry enough context to point at the offending period or roll number;
// store errors propagate wrapped and are the only retryable class.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSessionAlreadyActive = errors.New("another session is already active, please contact admin to reset")
	ErrInvalidRange         = errors.New("end of range precedes its start")
	ErrGrantNotFound        = errors.New("grant not found")
	ErrSectionNotFound      = errors.New("section not found")
	ErrSectionExists        = errors.New("section already exists")
	ErrStudentNotFound      = errors.New("student not found")
	ErrStudentExists        = errors.New("roll number already registered")
	ErrFacultyNotFound      = errors.New("faculty not found")
	ErrFacultyExists        = errors.New("faculty id already registered")
	ErrNoRecords            = errors.New("no attendance records found")
)

// DuplicatePeriodError reports a fresh mark targeting periods that are
// already recorded for the day and scope.
type DuplicatePeriodError struct {
	Periods []int
}

func (e *DuplicatePeriodError) Error() string {
	return fmt.Sprintf("periods already marked: %s", joinPeriods(e.Periods))
}

// InvalidEditTargetError reports an edit targeting periods that have no
// existing record; editing only updates, it never creates.
type InvalidEditTargetError struct {
	Periods []int
}

func (e *InvalidEditTargetError) Error() string {
	return fmt.Sprintf("invalid periods provided for editing: %s", joinPeriods(e.Periods))
}

// InvalidStatusError reports an attendance entry whose status is neither
// "present" nor "absent".
type InvalidStatusError struct {
	RollNumber string
	Status     string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q for roll number %s: must be 'present' or 'absent'", e.Status, e.RollNumber)
}

func joinPeriods(periods []int) string {
	parts := make([]string, len(periods))
	for i, p := range periods {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}
