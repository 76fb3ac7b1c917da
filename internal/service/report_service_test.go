package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tkrcet/attendance-backend/internal/model"
)

func strptr(s string) *string { return &s }

func record(date string, period int, subject string, entries ...model.AttendanceEntry) model.AttendanceRecord {
	return model.AttendanceRecord{
		Date:       date,
		Period:     period,
		Subject:    subject,
		Year:       "III",
		Department: "CSE",
		Section:    "A",
		Entries:    entries,
	}
}

func present(roll, name string) model.AttendanceEntry {
	return model.AttendanceEntry{RollNumber: roll, Name: name, Status: model.StatusPresent}
}

func absent(roll, name string) model.AttendanceEntry {
	return model.AttendanceEntry{RollNumber: roll, Name: name, Status: model.StatusAbsent}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		attended, total int
		want            string
	}{
		{0, 0, "0.00"},
		{1, 1, "100.00"},
		{1, 3, "33.33"},
		{2, 3, "66.67"},
		{5, 8, "62.50"},
	}
	for _, tt := range tests {
		if got := Percentage(tt.attended, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %q, want %q", tt.attended, tt.total, got, tt.want)
		}
	}
}

func TestBuildSubjectTable(t *testing.T) {
	records := []model.AttendanceRecord{
		record("2025-01-06", 1, "Maths", present("21A01", "Anil"), absent("21A02", "Bhavya")),
		record("2025-01-06", 3, "Maths", present("21A01", "Anil"), present("21A02", "Bhavya")),
		record("2025-01-07", 2, "Maths", absent("21A01", "Anil"), present("21A02", "Bhavya")),
	}

	table := BuildSubjectTable(records)

	if len(table.TableData) != 2 {
		t.Fatalf("expected 2 date rows, got %d", len(table.TableData))
	}
	day1 := table.TableData[0]
	if day1.Date != "2025-01-06" || !reflect.DeepEqual(day1.Periods, []int{1, 3}) {
		t.Errorf("unexpected first row: %+v", day1)
	}
	if !reflect.DeepEqual(day1.Students["21A02"], []string{"A", "P"}) {
		t.Errorf("expected marks [A P] for 21A02, got %v", day1.Students["21A02"])
	}

	if len(table.Percentages) != 2 {
		t.Fatalf("expected 2 percentage rows, got %d", len(table.Percentages))
	}
	// Encounter order: 21A01 was seen first.
	first := table.Percentages[0]
	if first.RollNumber != "21A01" {
		t.Errorf("expected 21A01 first, got %s", first.RollNumber)
	}
	if first.Attended != 2 || first.Total != 3 || first.Percentage != "66.67" {
		t.Errorf("unexpected totals for 21A01: %+v", first)
	}
}

func TestBuildStudentSummary(t *testing.T) {
	records := []model.AttendanceRecord{
		record("2025-01-06", 1, "Maths", present("21A01", "Anil"), absent("21A02", "Bhavya")),
		record("2025-01-06", 2, "Physics", absent("21A01", "Anil")),
		record("2025-01-07", 1, "Maths", present("21A01", "Anil")),
	}

	summary := BuildStudentSummary("21A01", records)

	if len(summary.SubjectSummary) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(summary.SubjectSummary))
	}
	maths := summary.SubjectSummary[0]
	if maths.Subject != "Maths" || maths.Conducted != 2 || maths.Attended != 2 || maths.Percentage != "100.00" {
		t.Errorf("unexpected Maths totals: %+v", maths)
	}
	physics := summary.SubjectSummary[1]
	if physics.Conducted != 1 || physics.Attended != 0 || physics.Percentage != "0.00" {
		t.Errorf("unexpected Physics totals: %+v", physics)
	}

	if len(summary.DailySummary) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(summary.DailySummary))
	}
	day1 := summary.DailySummary[0]
	if day1.Date != "2025-01-06" || day1.Total != 2 || day1.Attended != 1 {
		t.Errorf("unexpected day bucket: %+v", day1)
	}
	wantMarks := []model.DailyPeriodMark{
		{Period: 1, Subject: "Maths", Status: model.StatusPresent},
		{Period: 2, Subject: "Physics", Status: model.StatusAbsent},
	}
	if !reflect.DeepEqual(day1.Periods, wantMarks) {
		t.Errorf("unexpected period marks: %+v", day1.Periods)
	}
}

func TestBuildSectionOverall(t *testing.T) {
	students := []model.Student{
		{RollNumber: "21A01", Name: "Anil"},
		{RollNumber: "21A02", Name: "Bhavya"},
		{RollNumber: "21A03", Name: "Chitra"},
	}
	records := []model.AttendanceRecord{
		record("2025-01-06", 1, "Maths",
			present("21A01", "Anil"), absent("21A02", "Bhavya"),
			// transfer student not on the roster; must be ignored
			present("99X99", "Ghost")),
		record("2025-01-06", 2, "Physics", present("21A01", "Anil"), present("21A02", "Bhavya")),
	}

	rows := BuildSectionOverall(students, records)

	if len(rows) != 3 {
		t.Fatalf("expected one row per roster student, got %d", len(rows))
	}
	if rows[0].TotalAttended != 2 || rows[0].TotalConducted != 2 || rows[0].Percentage != "100.00" {
		t.Errorf("unexpected row for 21A01: %+v", rows[0])
	}
	if rows[1].TotalAttended != 1 || rows[1].TotalConducted != 2 || rows[1].Percentage != "50.00" {
		t.Errorf("unexpected row for 21A02: %+v", rows[1])
	}
	// Never marked: zero rows still render.
	if rows[2].TotalConducted != 0 || rows[2].Percentage != "0.00" {
		t.Errorf("unexpected row for 21A03: %+v", rows[2])
	}
}

func TestSectionOverallUnknownSection(t *testing.T) {
	svc := NewReportService(&fakeAttendanceStore{}, &fakeRosterStore{})

	_, err := svc.SectionOverall(context.Background(), "III", "CSE", "Q")
	if !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestCollectAbsentees(t *testing.T) {
	records := []model.AttendanceRecord{
		record("2025-01-06", 1, "Maths", present("21A01", "Anil"), absent("21A02", "Bhavya")),
		record("2025-01-06", 2, "Physics", absent("21A02", "Bhavya"), absent("21A03", "Chitra")),
	}

	absentees := CollectAbsentees(records)

	if len(absentees) != 2 {
		t.Fatalf("expected 2 absentees, got %d", len(absentees))
	}
	if absentees[0].RollNumber != "21A02" {
		t.Errorf("expected 21A02 first (encounter order), got %s", absentees[0].RollNumber)
	}
	if absentees[0].AbsentCount != 2 || !reflect.DeepEqual(absentees[0].AbsentPeriods, []int{1, 2}) {
		t.Errorf("unexpected absence for 21A02: %+v", absentees[0])
	}
	if absentees[1].RollNumber != "21A03" || absentees[1].AbsentCount != 1 {
		t.Errorf("unexpected absence for 21A03: %+v", absentees[1])
	}
	if absentees[0].Year != "III" || absentees[0].Section != "A" {
		t.Errorf("scope not carried onto absentee: %+v", absentees[0])
	}
}

func TestResolveContacts(t *testing.T) {
	absentees := []model.Absentee{
		{RollNumber: "21A01"},
		{RollNumber: "21A02"},
		{RollNumber: "21A03"},
	}
	students := []model.Student{
		{RollNumber: "21A01", GuardianMobileNumber: strptr("+919900112233")},
		{RollNumber: "21A02", GuardianMobileNumber: nil},
	}

	ResolveContacts(absentees, students)

	if absentees[0].Contact == nil || *absentees[0].Contact != "+919900112233" {
		t.Errorf("expected contact resolved for 21A01, got %v", absentees[0].Contact)
	}
	if absentees[1].Contact != nil {
		t.Errorf("expected nil contact preserved for 21A02, got %v", absentees[1].Contact)
	}
	if absentees[2].Contact != nil {
		t.Errorf("expected nil contact for roll with no roster match")
	}
}

func TestBuildDaySummary(t *testing.T) {
	rec1 := record("2025-01-06", 1, "Maths", present("21A01", "Anil"), absent("21A02", "Bhavya"))
	rec1.FacultyName = "Dr. Rao"
	rec1.PhoneNumber = "+911234567890"
	records := []model.AttendanceRecord{
		rec1,
		record("2025-01-06", 2, "Physics", present("21A01", "Anil"), present("21A02", "Bhavya")),
	}

	buckets := BuildDaySummary(records)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	maths := buckets[0]
	if maths.Label != "Period 1 - Maths" {
		t.Errorf("unexpected label %q", maths.Label)
	}
	if maths.PresentCount != 1 || maths.AbsentCount != 1 {
		t.Errorf("unexpected counts: %+v", maths)
	}
	if !reflect.DeepEqual(maths.AbsentRolls, []string{"21A02"}) {
		t.Errorf("unexpected absent rolls: %v", maths.AbsentRolls)
	}
	if maths.FacultyName != "Dr. Rao" || maths.PhoneNumber != "+911234567890" {
		t.Errorf("record metadata not carried: %+v", maths)
	}
}
