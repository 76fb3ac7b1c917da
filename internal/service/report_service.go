package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/tkrcet/attendance-backend/internal/model"
)

// RosterStore is the roster surface the report logic needs. Implemented by
// repository.RosterRepository.
type RosterStore interface {
	GetSection(ctx context.Context, year, department, name string) (*model.Section, error)
	ListStudents(ctx context.Context, sectionID int) ([]model.Student, error)
	FindStudentsByRolls(ctx context.Context, rollNumbers []string) ([]model.Student, error)
}

// ReportService derives per-student, per-subject and per-section views
// from raw attendance records. It never mutates the store. All grouping is
// encounter order — the order the store returns records, which is
// insertion order — because the rendered tables depend on it.
type ReportService struct {
	store  AttendanceStore
	roster RosterStore
}

// NewReportService creates a new ReportService.
func NewReportService(store AttendanceStore, roster RosterStore) *ReportService {
	return &ReportService{store: store, roster: roster}
}

// Percentage formats attended/total as a two-decimal percentage string.
// "0.00" when nothing was conducted, so callers never divide by zero.
func Percentage(attended, total int) string {
	if total == 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(attended)/float64(total)*100, 'f', 2, 64)
}

// SubjectTable builds the subject-wise P/A table for a section scope.
func (s *ReportService) SubjectTable(ctx context.Context, year, department, section, subject string) (*model.SubjectAttendanceTable, error) {
	records, err := s.store.FindBySubject(ctx, year, department, section, subject)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return BuildSubjectTable(records), nil
}

// BuildSubjectTable folds subject records into per-date columns of P/A
// marks plus running per-student percentages.
func BuildSubjectTable(records []model.AttendanceRecord) *model.SubjectAttendanceTable {
	type totals struct {
		total    int
		attended int
	}

	rowIndex := make(map[string]int)
	var rows []model.SubjectDateRow

	studentTotals := make(map[string]*totals)
	var rollOrder []string

	for _, rec := range records {
		idx, ok := rowIndex[rec.Date]
		if !ok {
			idx = len(rows)
			rowIndex[rec.Date] = idx
			rows = append(rows, model.SubjectDateRow{
				Date:     rec.Date,
				Students: make(map[string][]string),
			})
		}
		rows[idx].Periods = append(rows[idx].Periods, rec.Period)

		for _, entry := range rec.Entries {
			mark := "A"
			if entry.Status == model.StatusPresent {
				mark = "P"
			}
			rows[idx].Students[entry.RollNumber] = append(rows[idx].Students[entry.RollNumber], mark)

			t, ok := studentTotals[entry.RollNumber]
			if !ok {
				t = &totals{}
				studentTotals[entry.RollNumber] = t
				rollOrder = append(rollOrder, entry.RollNumber)
			}
			t.total++
			if entry.Status == model.StatusPresent {
				t.attended++
			}
		}
	}

	percentages := make([]model.StudentPercentage, 0, len(rollOrder))
	for _, roll := range rollOrder {
		t := studentTotals[roll]
		percentages = append(percentages, model.StudentPercentage{
			RollNumber: roll,
			Total:      t.total,
			Attended:   t.attended,
			Percentage: Percentage(t.attended, t.total),
		})
	}

	return &model.SubjectAttendanceTable{TableData: rows, Percentages: percentages}
}

// StudentSummary builds a student's subject-wise and daily report across
// every record that names their roll number.
func (s *ReportService) StudentSummary(ctx context.Context, rollNumber string) (*model.StudentSummary, error) {
	records, err := s.store.FindByRollNumber(ctx, rollNumber)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return BuildStudentSummary(rollNumber, records), nil
}

// BuildStudentSummary accumulates conducted/attended per subject and
// buckets per-period marks by calendar day for one roll number.
func BuildStudentSummary(rollNumber string, records []model.AttendanceRecord) *model.StudentSummary {
	subjectIndex := make(map[string]int)
	var subjects []model.SubjectTotals

	dayIndex := make(map[string]int)
	var days []model.DailyTotals

	for _, rec := range records {
		for _, entry := range rec.Entries {
			if entry.RollNumber != rollNumber {
				continue
			}

			si, ok := subjectIndex[rec.Subject]
			if !ok {
				si = len(subjects)
				subjectIndex[rec.Subject] = si
				subjects = append(subjects, model.SubjectTotals{Subject: rec.Subject})
			}
			subjects[si].Conducted++
			if entry.Status == model.StatusPresent {
				subjects[si].Attended++
			}

			di, ok := dayIndex[rec.Date]
			if !ok {
				di = len(days)
				dayIndex[rec.Date] = di
				days = append(days, model.DailyTotals{Date: rec.Date})
			}
			days[di].Periods = append(days[di].Periods, model.DailyPeriodMark{
				Period:  rec.Period,
				Subject: rec.Subject,
				Status:  entry.Status,
			})
			days[di].Total++
			if entry.Status == model.StatusPresent {
				days[di].Attended++
			}
		}
	}

	for i := range subjects {
		subjects[i].Percentage = Percentage(subjects[i].Attended, subjects[i].Conducted)
	}

	return &model.StudentSummary{
		RollNumber:     rollNumber,
		SubjectSummary: subjects,
		DailySummary:   days,
	}
}

// SectionOverall builds the cumulative attendance table for one section.
// Every roster student appears, including those with zero entries.
func (s *ReportService) SectionOverall(ctx context.Context, year, department, section string) ([]model.SectionOverallRow, error) {
	sec, err := s.roster.GetSection(ctx, year, department, section)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find section: %w", err)
	}
	students, err := s.roster.ListStudents(ctx, sec.ID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	records, err := s.store.FindByScopeAllDates(ctx, year, department, section)
	if err != nil {
		return nil, err
	}
	return BuildSectionOverall(students, records), nil
}

// BuildSectionOverall seeds one accumulator per roster student and folds
// every record entry into it. Entries whose roll number is not on the
// roster are ignored; the roster is authoritative for who appears.
func BuildSectionOverall(students []model.Student, records []model.AttendanceRecord) []model.SectionOverallRow {
	index := make(map[string]int, len(students))
	rows := make([]model.SectionOverallRow, len(students))
	for i, st := range students {
		index[st.RollNumber] = i
		rows[i] = model.SectionOverallRow{
			RollNumber: st.RollNumber,
			Name:       st.Name,
		}
	}

	for _, rec := range records {
		for _, entry := range rec.Entries {
			i, ok := index[entry.RollNumber]
			if !ok {
				continue
			}
			rows[i].TotalConducted++
			if entry.Status == model.StatusPresent {
				rows[i].TotalAttended++
			}
		}
	}

	for i := range rows {
		rows[i].Percentage = Percentage(rows[i].TotalAttended, rows[i].TotalConducted)
	}
	return rows
}

// AbsenteesForDate collects every student with at least one absent entry
// on a date, across all scopes, with guardian contacts joined in a single
// roster pass. Students without a guardian number stay in the result with
// a nil contact; they are dropped at the notification stage, not here.
func (s *ReportService) AbsenteesForDate(ctx context.Context, date string) ([]model.Absentee, error) {
	records, err := s.store.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	absentees := CollectAbsentees(records)
	if len(absentees) == 0 {
		return absentees, nil
	}

	rolls := make([]string, len(absentees))
	for i, a := range absentees {
		rolls[i] = a.RollNumber
	}
	students, err := s.roster.FindStudentsByRolls(ctx, rolls)
	if err != nil {
		return nil, fmt.Errorf("resolve contacts: %w", err)
	}

	ResolveContacts(absentees, students)
	return absentees, nil
}

// CollectAbsentees groups absent entries by roll number in encounter
// order, appending each record's period to the student's absent list.
func CollectAbsentees(records []model.AttendanceRecord) []model.Absentee {
	index := make(map[string]int)
	var absentees []model.Absentee

	for _, rec := range records {
		for _, entry := range rec.Entries {
			if entry.Status != model.StatusAbsent {
				continue
			}
			i, ok := index[entry.RollNumber]
			if !ok {
				i = len(absentees)
				index[entry.RollNumber] = i
				absentees = append(absentees, model.Absentee{
					RollNumber: entry.RollNumber,
					Name:       entry.Name,
					Year:       rec.Year,
					Department: rec.Department,
					Section:    rec.Section,
				})
			}
			absentees[i].AbsentPeriods = append(absentees[i].AbsentPeriods, rec.Period)
			absentees[i].AbsentCount++
		}
	}
	return absentees
}

// ResolveContacts joins guardian numbers onto absentees by roll number.
// Absentees without a roster match or guardian number keep a nil contact.
func ResolveContacts(absentees []model.Absentee, students []model.Student) {
	contacts := make(map[string]*string, len(students))
	for _, st := range students {
		contacts[st.RollNumber] = st.GuardianMobileNumber
	}
	for i := range absentees {
		if c, ok := contacts[absentees[i].RollNumber]; ok {
			absentees[i].Contact = c
		}
	}
}

// SectionDaySummary builds the per-period breakdown for one section's day.
func (s *ReportService) SectionDaySummary(ctx context.Context, year, department, section, date string) ([]model.DayPeriodBreakdown, error) {
	records, err := s.store.FindByScope(ctx, date, year, department, section)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return BuildDaySummary(records), nil
}

// BuildDaySummary groups a day's records into "Period N - Subject" buckets
// with present/absent counts and roll lists, preserving record metadata.
func BuildDaySummary(records []model.AttendanceRecord) []model.DayPeriodBreakdown {
	index := make(map[string]int)
	var buckets []model.DayPeriodBreakdown

	for _, rec := range records {
		label := fmt.Sprintf("Period %d - %s", rec.Period, rec.Subject)
		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, model.DayPeriodBreakdown{
				Label:       label,
				Period:      rec.Period,
				Subject:     rec.Subject,
				FacultyName: rec.FacultyName,
				PhoneNumber: rec.PhoneNumber,
			})
		}
		for _, entry := range rec.Entries {
			if entry.Status == model.StatusPresent {
				buckets[i].PresentCount++
				buckets[i].PresentRolls = append(buckets[i].PresentRolls, entry.RollNumber)
			} else {
				buckets[i].AbsentCount++
				buckets[i].AbsentRolls = append(buckets[i].AbsentRolls, entry.RollNumber)
			}
		}
	}
	return buckets
}
