package model

// Derived report views produced by the attendance aggregation logic.
// Grouping everywhere is encounter order — the order records and entries
// were first seen — because the tables are rendered exactly in that order.

// SubjectDateRow is one date's column group in the subject-wise table.
// Students maps roll number to a "P"/"A" sequence, one mark per period in
// the order the periods were encountered.
type SubjectDateRow struct {
	Date     string              `json:"date"`
	Periods  []int               `json:"periods"`
	Students map[string][]string `json:"students"`
}

// StudentPercentage is a running attended/total ratio for one student.
// Percentage is formatted with two decimals; "0.00" when total is zero.
type StudentPercentage struct {
	RollNumber string `json:"rollNumber"`
	Total      int    `json:"total"`
	Attended   int    `json:"attended"`
	Percentage string `json:"percentage"`
}

// SubjectAttendanceTable is the subject-wise view for one section scope.
type SubjectAttendanceTable struct {
	TableData   []SubjectDateRow    `json:"data"`
	Percentages []StudentPercentage `json:"percentageData"`
}

// SubjectTotals accumulates conducted/attended classes for one subject in a
// student's summary.
type SubjectTotals struct {
	Subject    string `json:"subject"`
	Conducted  int    `json:"classesConducted"`
	Attended   int    `json:"classesAttended"`
	Percentage string `json:"percentage"`
}

// DailyPeriodMark is one period's subject and status within a day bucket.
type DailyPeriodMark struct {
	Period  int         `json:"period"`
	Subject string      `json:"subject"`
	Status  EntryStatus `json:"status"`
}

// DailyTotals is one calendar day's bucket in a student summary, with
// running totals for that day.
type DailyTotals struct {
	Date     string            `json:"date"`
	Periods  []DailyPeriodMark `json:"periods"`
	Total    int               `json:"total"`
	Attended int               `json:"attended"`
}

// StudentSummary is the full per-student report.
type StudentSummary struct {
	RollNumber     string          `json:"rollNumber"`
	SubjectSummary []SubjectTotals `json:"subjectSummary"`
	DailySummary   []DailyTotals   `json:"dailySummary"`
}

// SectionOverallRow is one roster student's cumulative attendance across
// all subjects. Every roster student appears, including those with zero
// entries (0/0 and "0.00").
type SectionOverallRow struct {
	RollNumber     string `json:"rollNumber"`
	Name           string `json:"name"`
	TotalConducted int    `json:"totalConducted"`
	TotalAttended  int    `json:"totalAttended"`
	Percentage     string `json:"percentage"`
}

// Absentee is one student with at least one absent entry on a date.
// Contact is nil when no guardian number is on record; such students stay
// in the report and are only skipped at the notification stage.
type Absentee struct {
	RollNumber    string  `json:"rollNumber"`
	Name          string  `json:"name"`
	Year          string  `json:"year"`
	Department    string  `json:"department"`
	Section       string  `json:"section"`
	AbsentPeriods []int   `json:"absentPeriods"`
	AbsentCount   int     `json:"absentCount"`
	Contact       *string `json:"contact"`
}

// DayPeriodBreakdown is one period bucket in a section's day summary,
// labeled "Period N - Subject".
type DayPeriodBreakdown struct {
	Label        string   `json:"label"`
	Period       int      `json:"period"`
	Subject      string   `json:"subject"`
	FacultyName  string   `json:"facultyName,omitempty"`
	PhoneNumber  string   `json:"phoneNumber,omitempty"`
	PresentCount int      `json:"presentCount"`
	AbsentCount  int      `json:"absentCount"`
	PresentRolls []string `json:"presentRolls"`
	AbsentRolls  []string `json:"absentRolls"`
}
