package model

import "time"

// Section is one class group, keyed by the flat composite
// (year, department, name). The old nested Year→Department→Section
// hierarchy is preserved as an API shape but stored flat so the
// "at most one section per name" invariant is a unique index.
type Section struct {
	ID         int       `json:"id"`
	Year       string    `json:"year"`
	Department string    `json:"department"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// Student belongs to exactly one section. Optional contact fields are
// pointers: nil means the value was never captured, and callers must
// decide how to handle absence instead of matching an "N/A" string.
type Student struct {
	ID                   int       `json:"id"`
	SectionID            int       `json:"section_id"`
	RollNumber           string    `json:"rollNumber"`
	Name                 string    `json:"name"`
	FatherName           *string   `json:"fatherName,omitempty"`
	Role                 string    `json:"role"`
	PasswordHash         string    `json:"-"`
	MobileNumber         *string   `json:"mobileNumber,omitempty"`
	GuardianMobileNumber *string   `json:"guardianMobileNumber,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// CreateSectionRequest creates one section under a year/department scope.
type CreateSectionRequest struct {
	Year       string `json:"year" binding:"required,min=1,max=30"`
	Department string `json:"department" binding:"required,min=1,max=30"`
	Name       string `json:"name" binding:"required,min=1,max=10"`
}

// AddStudentRequest is one student in a bulk add.
type AddStudentRequest struct {
	RollNumber           string  `json:"rollNumber" binding:"required,min=1,max=20"`
	Name                 string  `json:"name" binding:"required,min=1,max=100"`
	FatherName           *string `json:"fatherName"`
	Password             string  `json:"password" binding:"required,min=4,max=128"`
	Role                 string  `json:"role" binding:"omitempty,oneof=student admin teacher"`
	MobileNumber         *string `json:"mobileNumber"`
	GuardianMobileNumber *string `json:"guardianMobileNumber"`
}

// AddStudentsRequest bulk-adds students to a section.
type AddStudentsRequest struct {
	Students []AddStudentRequest `json:"students" binding:"required,min=1,dive"`
}

// StudentLoginRequest is the payload for student authentication.
type StudentLoginRequest struct {
	RollNumber string `json:"rollNumber" binding:"required"`
	Password   string `json:"password" binding:"required"`
}
