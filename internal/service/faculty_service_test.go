package service

import (
	"reflect"
	"testing"

	"github.com/tkrcet/attendance-backend/internal/model"
)

func facultyWeek() []model.FacultyTimetableDay {
	return []model.FacultyTimetableDay{
		{
			Day: "Monday",
			Periods: []model.FacultyPeriod{
				{PeriodNumber: 1, Subject: "Maths", Year: "III", Department: "CSE", Section: "A"},
				{PeriodNumber: 2}, // free period
				{PeriodNumber: 3, Subject: "Maths", Year: "III", Department: "CSE", Section: "B"},
			},
		},
		{
			Day: "Tuesday",
			Periods: []model.FacultyPeriod{
				{PeriodNumber: 1, Subject: "Maths", Year: "III", Department: "CSE", Section: "A"},
				{PeriodNumber: 4, Subject: "Discrete Maths", Year: "II", Department: "CSE", Section: "A"},
			},
		},
	}
}

func TestDistinctClasses(t *testing.T) {
	classes := DistinctClasses(facultyWeek())

	want := []model.ClassScope{
		{Year: "III", Department: "CSE", Section: "A", Subject: "Maths"},
		{Year: "III", Department: "CSE", Section: "B", Subject: "Maths"},
		{Year: "II", Department: "CSE", Section: "A", Subject: "Discrete Maths"},
	}
	if !reflect.DeepEqual(classes, want) {
		t.Errorf("DistinctClasses = %+v, want %+v", classes, want)
	}
}

func TestClassesOn(t *testing.T) {
	classes := ClassesOn(facultyWeek(), "Monday")
	if len(classes) != 2 {
		t.Fatalf("expected 2 taught slots on Monday, got %d", len(classes))
	}
	if classes[0].Section != "A" || classes[1].Section != "B" {
		t.Errorf("unexpected slots: %+v", classes)
	}

	// Sunday is not in the timetable at all.
	if got := ClassesOn(facultyWeek(), "Sunday"); got != nil {
		t.Errorf("expected no classes on Sunday, got %+v", got)
	}
}

func TestValidWeekday(t *testing.T) {
	for _, day := range model.Weekdays {
		if !model.ValidWeekday(day) {
			t.Errorf("expected %s to be valid", day)
		}
	}
	if model.ValidWeekday("Sunday") {
		t.Error("Sunday is not a school day")
	}
	if model.ValidWeekday("monday") {
		t.Error("weekday names are case sensitive")
	}
}
