package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/model"
	"github.com/tkrcet/attendance-backend/internal/repository"
)

// fakeAttendanceStore is an in-memory AttendanceStore for service tests.
// conflictPeriods lists periods whose InsertStrict loses the race.
type fakeAttendanceStore struct {
	records         []model.AttendanceRecord
	marked          []int
	conflictPeriods map[int]bool
	nextID          int64
}

func (f *fakeAttendanceStore) MarkedPeriods(ctx context.Context, date, year, department, section string) ([]int, error) {
	return f.marked, nil
}

func (f *fakeAttendanceStore) InsertStrict(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, error) {
	if f.conflictPeriods[rec.Period] {
		return nil, repository.ErrDuplicateKey
	}
	f.nextID++
	saved := *rec
	saved.ID = f.nextID
	f.records = append(f.records, saved)
	return &saved, nil
}

func (f *fakeAttendanceStore) Upsert(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, bool, error) {
	for i := range f.records {
		if f.records[i].Key() == rec.Key() {
			id := f.records[i].ID
			f.records[i] = *rec
			f.records[i].ID = id
			return &f.records[i], false, nil
		}
	}
	f.nextID++
	saved := *rec
	saved.ID = f.nextID
	f.records = append(f.records, saved)
	return &saved, true, nil
}

func (f *fakeAttendanceStore) FindByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, r := range f.records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) FindByScope(ctx context.Context, date, year, department, section string) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, r := range f.records {
		if r.Date == date && r.Year == year && r.Department == department && r.Section == section {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) FindByScopeAllDates(ctx context.Context, year, department, section string) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, r := range f.records {
		if r.Year == year && r.Department == department && r.Section == section {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) FindBySubject(ctx context.Context, year, department, section, subject string) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, r := range f.records {
		if r.Year == year && r.Department == department && r.Section == section && r.Subject == subject {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) FindByRollNumber(ctx context.Context, rollNumber string) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, r := range f.records {
		for _, e := range r.Entries {
			if e.RollNumber == rollNumber {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func TestNormalizeEntries(t *testing.T) {
	entries, err := NormalizeEntries([]model.MarkEntryRequest{
		{RollNumber: "21A01", Name: "Anil", Status: "Present"},
		{RollNumber: "21A02", Name: "Bhavya", Status: "ABSENT"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].Status != model.StatusPresent {
		t.Errorf("expected present, got %q", entries[0].Status)
	}
	if entries[1].Status != model.StatusAbsent {
		t.Errorf("expected absent, got %q", entries[1].Status)
	}
}

func TestNormalizeEntriesRejectsUnknownStatus(t *testing.T) {
	_, err := NormalizeEntries([]model.MarkEntryRequest{
		{RollNumber: "21A01", Name: "Anil", Status: "late"},
	})
	var invalid *InvalidStatusError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidStatusError, got %v", err)
	}
	if invalid.RollNumber != "21A01" {
		t.Errorf("expected roll 21A01 in error, got %q", invalid.RollNumber)
	}
}

func TestValidatePeriodsForMutation(t *testing.T) {
	tests := []struct {
		name      string
		requested []int
		marked    []int
		editing   bool
		wantErr   error
	}{
		{"fresh mark on free periods", []int{1, 2}, []int{3}, false, nil},
		{"fresh mark hits marked period", []int{1, 3}, []int{3}, false, &DuplicatePeriodError{}},
		{"edit of marked periods", []int{3}, []int{3, 4}, true, nil},
		{"edit of unmarked period", []int{5}, []int{3, 4}, true, &InvalidEditTargetError{}},
		{"fresh mark with nothing marked", []int{1}, nil, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeriodsForMutation(tt.requested, tt.marked, tt.editing)
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			case *DuplicatePeriodError:
				var got *DuplicatePeriodError
				if !errors.As(err, &got) {
					t.Fatalf("expected DuplicatePeriodError, got %v", err)
				}
			case *InvalidEditTargetError:
				var got *InvalidEditTargetError
				if !errors.As(err, &got) {
					t.Fatalf("expected InvalidEditTargetError, got %v", err)
				}
			default:
				t.Fatalf("unhandled want %T", want)
			}
		})
	}
}

func markRequest(periods []int, editing bool) *model.MarkAttendanceRequest {
	return &model.MarkAttendanceRequest{
		Date:       "2025-01-06",
		Periods:    periods,
		Subject:    "Mathematics",
		Topic:      "Laplace transforms",
		Year:       "III",
		Department: "CSE",
		Section:    "A",
		Attendance: []model.MarkEntryRequest{
			{RollNumber: "21A01", Name: "Anil", Status: "present"},
			{RollNumber: "21A02", Name: "Bhavya", Status: "absent"},
		},
		Editing: editing,
	}
}

func TestMarkCreatesIndependentPeriods(t *testing.T) {
	store := &fakeAttendanceStore{}
	svc := NewAttendanceService(store, nil, zerolog.Nop())

	outcomes, _, err := svc.Mark(context.Background(), markRequest([]int{1, 2}, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Status != model.PeriodCreated {
			t.Errorf("outcome %d: expected created, got %q", i, o.Status)
		}
		if o.Record == nil || o.Record.ID == 0 {
			t.Errorf("outcome %d: expected stored record with ID", i)
		}
	}
	if len(store.records) != 2 {
		t.Errorf("expected 2 stored records, got %d", len(store.records))
	}
}

func TestMarkSurfacesInsertRaceAsConflict(t *testing.T) {
	store := &fakeAttendanceStore{conflictPeriods: map[int]bool{2: true}}
	svc := NewAttendanceService(store, nil, zerolog.Nop())

	outcomes, _, err := svc.Mark(context.Background(), markRequest([]int{1, 2, 3}, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.PeriodOutcomeStatus{model.PeriodCreated, model.PeriodConflict, model.PeriodCreated}
	for i, o := range outcomes {
		if o.Status != want[i] {
			t.Errorf("period %d: expected %q, got %q", o.Period, want[i], o.Status)
		}
	}
	if outcomes[1].Record != nil {
		t.Error("conflict outcome must not carry a record")
	}
}

func TestMarkRejectsDuplicateFreshMark(t *testing.T) {
	store := &fakeAttendanceStore{marked: []int{2}}
	svc := NewAttendanceService(store, nil, zerolog.Nop())

	_, marked, err := svc.Mark(context.Background(), markRequest([]int{1, 2}, false))
	var dup *DuplicatePeriodError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicatePeriodError, got %v", err)
	}
	if len(marked) != 1 || marked[0] != 2 {
		t.Errorf("expected marked periods [2] alongside error, got %v", marked)
	}
	if len(store.records) != 0 {
		t.Error("nothing may be written on a rejected mark")
	}
}

func TestMarkEditReplacesEntriesWholesale(t *testing.T) {
	store := &fakeAttendanceStore{}
	svc := NewAttendanceService(store, nil, zerolog.Nop())

	if _, _, err := svc.Mark(context.Background(), markRequest([]int{1}, false)); err != nil {
		t.Fatalf("seed mark failed: %v", err)
	}
	store.marked = []int{1}

	edit := markRequest([]int{1}, true)
	edit.Attendance = []model.MarkEntryRequest{
		{RollNumber: "21A01", Name: "Anil", Status: "absent"},
	}
	outcomes, _, err := svc.Mark(context.Background(), edit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcomes[0].Status != model.PeriodUpdated {
		t.Fatalf("expected updated, got %q", outcomes[0].Status)
	}
	rec := store.records[0]
	if len(rec.Entries) != 1 {
		t.Fatalf("expected entries replaced wholesale, got %d entries", len(rec.Entries))
	}
	if rec.Entries[0].Status != model.StatusAbsent {
		t.Errorf("expected edited status absent, got %q", rec.Entries[0].Status)
	}
}

func TestMarkEditOfUnmarkedPeriodFails(t *testing.T) {
	store := &fakeAttendanceStore{marked: []int{1}}
	svc := NewAttendanceService(store, nil, zerolog.Nop())

	_, _, err := svc.Mark(context.Background(), markRequest([]int{4}, true))
	var invalid *InvalidEditTargetError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidEditTargetError, got %v", err)
	}
}

func TestCheckReturnsDistinctPeriods(t *testing.T) {
	store := &fakeAttendanceStore{}
	svc := NewAttendanceService(store, nil, zerolog.Nop())

	if _, _, err := svc.Mark(context.Background(), markRequest([]int{1, 2}, false)); err != nil {
		t.Fatalf("seed mark failed: %v", err)
	}

	periods, records, err := svc.Check(context.Background(), "2025-01-06", "III", "CSE", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 2 || len(records) != 2 {
		t.Errorf("expected 2 periods and 2 records, got %d and %d", len(periods), len(records))
	}
}

func TestMarkedPeriodsStableWithoutWrites(t *testing.T) {
	store := &fakeAttendanceStore{marked: []int{1, 3}}
	svc := NewAttendanceService(store, nil, zerolog.Nop())

	first, err := svc.MarkedPeriods(context.Background(), "2025-01-06", "III", "CSE", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.MarkedPeriods(context.Background(), "2025-01-06", "III", "CSE", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated reads differ: %v vs %v", first, second)
	}
}

func TestFetchBySubjectFiltersScope(t *testing.T) {
	store := &fakeAttendanceStore{}
	svc := NewAttendanceService(store, nil, zerolog.Nop())

	if _, _, err := svc.Mark(context.Background(), markRequest([]int{1, 2}, false)); err != nil {
		t.Fatalf("seed mark failed: %v", err)
	}
	other := markRequest([]int{3}, false)
	other.Subject = "Physics"
	if _, _, err := svc.Mark(context.Background(), other); err != nil {
		t.Fatalf("seed mark failed: %v", err)
	}

	records, err := svc.FetchBySubject(context.Background(), "III", "CSE", "A", "Mathematics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, r := range records {
		if r.Subject != "Mathematics" {
			t.Errorf("expected only Mathematics records, got %q", r.Subject)
		}
	}

	if _, err := svc.FetchBySubject(context.Background(), "III", "CSE", "A", "Chemistry"); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}

func TestCheckEmptyScopeIsErrNoRecords(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceStore{}, nil, zerolog.Nop())
	_, _, err := svc.Check(context.Background(), "2025-01-06", "III", "CSE", "A")
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}
