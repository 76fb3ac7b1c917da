package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/config"
	"github.com/tkrcet/attendance-backend/internal/model"
)

type fakeRosterStore struct {
	section  *model.Section
	students []model.Student
}

// GetSection mirrors the repository contract: pgx.ErrNoRows for a missing
// section, not a domain sentinel.
func (f *fakeRosterStore) GetSection(ctx context.Context, year, department, name string) (*model.Section, error) {
	if f.section == nil {
		return nil, pgx.ErrNoRows
	}
	return f.section, nil
}

func (f *fakeRosterStore) ListStudents(ctx context.Context, sectionID int) ([]model.Student, error) {
	return f.students, nil
}

func (f *fakeRosterStore) FindStudentsByRolls(ctx context.Context, rollNumbers []string) ([]model.Student, error) {
	want := make(map[string]bool, len(rollNumbers))
	for _, r := range rollNumbers {
		want[r] = true
	}
	var out []model.Student
	for _, st := range f.students {
		if want[st.RollNumber] {
			out = append(out, st)
		}
	}
	return out, nil
}

type fakeSender struct {
	sent    []string // phone numbers in send order
	failFor map[string]bool
}

func (f *fakeSender) Send(ctx context.Context, to, body string) error {
	if f.failFor[to] {
		return errors.New("carrier rejected")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeSentLog struct {
	entries []model.SentSMS
}

func (f *fakeSentLog) Insert(ctx context.Context, entry *model.SentSMS) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeSentLog) Exists(ctx context.Context, date, rollNumber string) (bool, error) {
	for _, e := range f.entries {
		if e.Date == date && e.RollNumber == rollNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSentLog) ListByDate(ctx context.Context, date string) ([]model.SentSMS, error) {
	var out []model.SentSMS
	for _, e := range f.entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestBuildAbsenteeMessage(t *testing.T) {
	got := BuildAbsenteeMessage("Anil Kumar", "21A01", 3, 6, "2025-01-06")
	want := "Dear Parent, Your ward Anil Kumar (Roll No: 21A01) was absent for 3 periods out of 6 on 2025-01-06. For any queries, contact the class teacher."
	if got != want {
		t.Errorf("message mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func newNotifyFixture(skipAlready bool, sender *fakeSender, sentLog *fakeSentLog) (*NotifyService, *fakeAttendanceStore) {
	store := &fakeAttendanceStore{}
	roster := &fakeRosterStore{
		students: []model.Student{
			{RollNumber: "21A01", Name: "Anil", GuardianMobileNumber: strptr("+911111111111")},
			{RollNumber: "21A02", Name: "Bhavya", GuardianMobileNumber: strptr("+912222222222")},
			{RollNumber: "21A03", Name: "Chitra"}, // no guardian number
		},
	}
	cfg := &config.Config{PeriodsPerDay: 6, SkipAlreadyNotified: skipAlready}
	reports := NewReportService(store, roster)
	return NewNotifyService(cfg, reports, sentLog, sender, nil, zerolog.Nop()), store
}

func seedAbsences(t *testing.T, store *fakeAttendanceStore) {
	t.Helper()
	recs := []model.AttendanceRecord{
		record("2025-01-06", 1, "Maths", present("21A01", "Anil"), absent("21A02", "Bhavya"), absent("21A03", "Chitra")),
		record("2025-01-06", 2, "Physics", absent("21A01", "Anil"), absent("21A02", "Bhavya")),
	}
	for i := range recs {
		if _, err := store.InsertStrict(context.Background(), &recs[i]); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}
}

func TestSendAbsenteeAlerts(t *testing.T) {
	sender := &fakeSender{}
	sentLog := &fakeSentLog{}
	svc, store := newNotifyFixture(false, sender, sentLog)
	seedAbsences(t, store)

	results, err := svc.SendAbsenteeAlerts(context.Background(), "2025-01-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected one result per absentee, got %d", len(results))
	}

	byRoll := make(map[string]DeliveryResult, len(results))
	for _, r := range results {
		byRoll[r.RollNumber] = r
	}
	if byRoll["21A01"].Status != DeliverySent || byRoll["21A02"].Status != DeliverySent {
		t.Errorf("expected sent for students with guardian numbers: %+v", results)
	}
	if byRoll["21A03"].Status != DeliverySkippedContact {
		t.Errorf("expected skip for student without guardian number, got %+v", byRoll["21A03"])
	}
	if len(sentLog.entries) != 2 {
		t.Errorf("expected 2 log entries, got %d", len(sentLog.entries))
	}
}

func TestSendAbsenteeAlertsFailureDoesNotAbortBatch(t *testing.T) {
	sender := &fakeSender{failFor: map[string]bool{"+912222222222": true}}
	sentLog := &fakeSentLog{}
	svc, store := newNotifyFixture(false, sender, sentLog)
	seedAbsences(t, store)

	results, err := svc.SendAbsenteeAlerts(context.Background(), "2025-01-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byRoll := make(map[string]DeliveryResult, len(results))
	for _, r := range results {
		byRoll[r.RollNumber] = r
	}
	if byRoll["21A02"].Status != DeliveryFailed || byRoll["21A02"].Error == "" {
		t.Errorf("expected failed result with error, got %+v", byRoll["21A02"])
	}
	if byRoll["21A01"].Status != DeliverySent {
		t.Errorf("one failed number must not abort the rest: %+v", byRoll["21A01"])
	}
	// Failed delivery must not land in the sent log.
	for _, e := range sentLog.entries {
		if e.RollNumber == "21A02" {
			t.Error("failed delivery was logged as sent")
		}
	}
}

func TestSendAbsenteeAlertsAtMostOnce(t *testing.T) {
	sender := &fakeSender{}
	sentLog := &fakeSentLog{}
	svc, store := newNotifyFixture(true, sender, sentLog)
	seedAbsences(t, store)

	if _, err := svc.SendAbsenteeAlerts(context.Background(), "2025-01-06"); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	firstSent := len(sender.sent)

	results, err := svc.SendAbsenteeAlerts(context.Background(), "2025-01-06")
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if len(sender.sent) != firstSent {
		t.Errorf("re-run resent messages: %d -> %d", firstSent, len(sender.sent))
	}
	for _, r := range results {
		if r.Status == DeliverySent {
			t.Errorf("expected no fresh sends on re-run, got %+v", r)
		}
	}
}

func TestSendAbsenteeAlertsNoAbsentees(t *testing.T) {
	svc, _ := newNotifyFixture(false, &fakeSender{}, &fakeSentLog{})
	results, err := svc.SendAbsenteeAlerts(context.Background(), "2025-01-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results for empty day, got %v", results)
	}
}
