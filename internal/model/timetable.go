package model

// Weekday names as used throughout timetables. Monday-based, matching the
// school week.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ValidWeekday reports whether day is a recognized school weekday.
func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// SectionPeriod is one slot in a section's weekly timetable.
type SectionPeriod struct {
	PeriodNumber int    `json:"periodNumber" binding:"required,min=1"`
	Subject      string `json:"subject" binding:"required"`
	FacultyName  string `json:"facultyName" binding:"required"`
}

// SectionTimetableDay is one weekday's period list for a section.
type SectionTimetableDay struct {
	Day     string          `json:"day" binding:"required"`
	Periods []SectionPeriod `json:"periods" binding:"required,dive"`
}

// UpsertTimetableRequest replaces a section's entire weekly timetable.
// Replacement is wholesale, mirroring how attendance entries are written.
type UpsertTimetableRequest struct {
	Timetable []SectionTimetableDay `json:"timetable" binding:"required,min=1,dive"`
}

// FacultyPeriod is one slot in a faculty member's weekly timetable,
// carrying the class scope the slot is taught to.
type FacultyPeriod struct {
	PeriodNumber int    `json:"periodNumber" binding:"required,min=1"`
	Subject      string `json:"subject"`
	Year         string `json:"year"`
	Department   string `json:"department"`
	Section      string `json:"section"`
}

// FacultyTimetableDay is one weekday's period list for a faculty member.
type FacultyTimetableDay struct {
	Day     string          `json:"day" binding:"required"`
	Periods []FacultyPeriod `json:"periods" binding:"required,dive"`
}

// ClassScope is a distinct (year, department, section, subject) combination
// taught by a faculty member, derived from their timetable.
type ClassScope struct {
	Year       string `json:"year"`
	Department string `json:"department"`
	Section    string `json:"section"`
	Subject    string `json:"subject"`
}

// TodayClass is one non-empty slot of a faculty member's timetable for the
// current day.
type TodayClass struct {
	ProgramYear string `json:"programYear"`
	Department  string `json:"department"`
	Section     string `json:"section"`
	Subject     string `json:"subject"`
}
