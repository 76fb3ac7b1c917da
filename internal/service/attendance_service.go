package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/model"
	"github.com/tkrcet/attendance-backend/internal/repository"
)

// AttendanceStore is the record-store surface the attendance logic needs.
// Implemented by repository.AttendanceRepository.
type AttendanceStore interface {
	MarkedPeriods(ctx context.Context, date, year, department, section string) ([]int, error)
	InsertStrict(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, error)
	Upsert(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, bool, error)
	FindByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error)
	FindByScope(ctx context.Context, date, year, department, section string) ([]model.AttendanceRecord, error)
	FindByScopeAllDates(ctx context.Context, year, department, section string) ([]model.AttendanceRecord, error)
	FindBySubject(ctx context.Context, year, department, section, subject string) ([]model.AttendanceRecord, error)
	FindByRollNumber(ctx context.Context, rollNumber string) ([]model.AttendanceRecord, error)
}

// AttendanceService owns the mark/edit flow. It is stateless; every
// sequencing requirement lives in the store's unique key.
type AttendanceService struct {
	store AttendanceStore
	feed  *LiveFeed
	log   zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService. feed may be nil
// when no live fan-out is wanted.
func NewAttendanceService(store AttendanceStore, feed *LiveFeed, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		store: store,
		feed:  feed,
		log:   log.With().Str("component", "attendance_service").Logger(),
	}
}

// NormalizeEntries validates and lowercases entry statuses. Roll numbers
// are not checked against the roster; the roster stays authoritative only
// at reporting time.
func NormalizeEntries(entries []model.MarkEntryRequest) ([]model.AttendanceEntry, error) {
	out := make([]model.AttendanceEntry, 0, len(entries))
	for _, e := range entries {
		status := model.EntryStatus(strings.ToLower(e.Status))
		if !status.Valid() {
			return nil, &InvalidStatusError{RollNumber: e.RollNumber, Status: e.Status}
		}
		out = append(out, model.AttendanceEntry{
			RollNumber: e.RollNumber,
			Name:       e.Name,
			Status:     status,
		})
	}
	return out, nil
}

// ValidatePeriodsForMutation enforces the marking policy: a fresh mark may
// not touch an already-marked period, and an edit may only touch marked
// periods.
func ValidatePeriodsForMutation(requested, marked []int, editing bool) error {
	markedSet := make(map[int]bool, len(marked))
	for _, p := range marked {
		markedSet[p] = true
	}

	if editing {
		var invalid []int
		for _, p := range requested {
			if !markedSet[p] {
				invalid = append(invalid, p)
			}
		}
		if len(invalid) > 0 {
			return &InvalidEditTargetError{Periods: invalid}
		}
		return nil
	}

	var dupes []int
	for _, p := range requested {
		if markedSet[p] {
			dupes = append(dupes, p)
		}
	}
	if len(dupes) > 0 {
		return &DuplicatePeriodError{Periods: dupes}
	}
	return nil
}

// Mark creates or edits attendance records for each requested period.
// Periods are processed independently: the returned outcome list says per
// period whether a record was created, updated, or lost an insert race.
// Store errors abort the call; the whole operation is safe to retry
// because upserts are idempotent per key.
func (s *AttendanceService) Mark(ctx context.Context, req *model.MarkAttendanceRequest) ([]model.PeriodOutcome, []int, error) {
	entries, err := NormalizeEntries(req.Attendance)
	if err != nil {
		return nil, nil, err
	}

	marked, err := s.store.MarkedPeriods(ctx, req.Date, req.Year, req.Department, req.Section)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch marked periods: %w", err)
	}

	if err := ValidatePeriodsForMutation(req.Periods, marked, req.Editing); err != nil {
		return nil, marked, err
	}

	outcomes := make([]model.PeriodOutcome, 0, len(req.Periods))
	for _, period := range req.Periods {
		rec := &model.AttendanceRecord{
			Date:        req.Date,
			Period:      period,
			Subject:     req.Subject,
			Topic:       req.Topic,
			Remarks:     req.Remarks,
			FacultyName: req.FacultyName,
			PhoneNumber: req.PhoneNumber,
			Year:        req.Year,
			Department:  req.Department,
			Section:     req.Section,
			Entries:     entries,
		}

		if req.Editing {
			saved, created, err := s.store.Upsert(ctx, rec)
			if err != nil {
				return outcomes, marked, fmt.Errorf("upsert period %d: %w", period, err)
			}
			status := model.PeriodUpdated
			if created {
				// Pre-check said the period was marked but the record vanished
				// under us. The upsert still wins; report what happened.
				status = model.PeriodCreated
			}
			outcomes = append(outcomes, model.PeriodOutcome{Period: period, Status: status, Record: saved})
			s.publish(ctx, saved)
			continue
		}

		saved, err := s.store.InsertStrict(ctx, rec)
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Lost the race to a concurrent mark for the same key. Surface it
			// instead of overwriting the winner.
			outcomes = append(outcomes, model.PeriodOutcome{Period: period, Status: model.PeriodConflict})
			continue
		}
		if err != nil {
			return outcomes, marked, fmt.Errorf("insert period %d: %w", period, err)
		}
		outcomes = append(outcomes, model.PeriodOutcome{Period: period, Status: model.PeriodCreated, Record: saved})
		s.publish(ctx, saved)
	}

	return outcomes, marked, nil
}

// MarkedPeriods returns the distinct periods already recorded for a day
// and scope.
func (s *AttendanceService) MarkedPeriods(ctx context.Context, date, year, department, section string) ([]int, error) {
	return s.store.MarkedPeriods(ctx, date, year, department, section)
}

// Check returns the marked periods plus the full records for a day and
// scope, the shape the marking UI uses to disable taken periods.
func (s *AttendanceService) Check(ctx context.Context, date, year, department, section string) ([]int, []model.AttendanceRecord, error) {
	records, err := s.store.FindByScope(ctx, date, year, department, section)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, ErrNoRecords
	}

	seen := make(map[int]bool)
	var periods []int
	for _, rec := range records {
		if !seen[rec.Period] {
			seen[rec.Period] = true
			periods = append(periods, rec.Period)
		}
	}
	return periods, records, nil
}

// FetchByDate returns every record for a day across all scopes.
func (s *AttendanceService) FetchByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	records, err := s.store.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// FetchByScope returns records for a day and section scope.
func (s *AttendanceService) FetchByScope(ctx context.Context, date, year, department, section string) ([]model.AttendanceRecord, error) {
	records, err := s.store.FindByScope(ctx, date, year, department, section)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// FetchBySubject returns all records of one subject for a scope.
func (s *AttendanceService) FetchBySubject(ctx context.Context, year, department, section, subject string) ([]model.AttendanceRecord, error) {
	records, err := s.store.FindBySubject(ctx, year, department, section, subject)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

func (s *AttendanceService) publish(ctx context.Context, rec *model.AttendanceRecord) {
	if s.feed == nil {
		return
	}
	if err := s.feed.PublishRecord(ctx, rec); err != nil {
		s.log.Warn().Err(err).
			Str("date", rec.Date).
			Int("period", rec.Period).
			Msg("live feed publish failed")
	}
}
