package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/model"
	"github.com/tkrcet/attendance-backend/internal/repository"
)

// FacultyService manages faculty accounts, their weekly timetables, and
// faculty login.
type FacultyService struct {
	faculty   *repository.FacultyRepository
	timetable *repository.TimetableRepository
	auth      *AuthService
	log       zerolog.Logger
}

// NewFacultyService creates a new FacultyService.
func NewFacultyService(faculty *repository.FacultyRepository, timetable *repository.TimetableRepository, auth *AuthService, log zerolog.Logger) *FacultyService {
	return &FacultyService{
		faculty:   faculty,
		timetable: timetable,
		auth:      auth,
		log:       log.With().Str("component", "faculty_service").Logger(),
	}
}

// Create registers a faculty member along with their weekly timetable.
func (s *FacultyService) Create(ctx context.Context, req *model.CreateFacultyRequest) (*model.Faculty, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	f := &model.Faculty{
		FacultyID:    req.FacultyID,
		Name:         req.Name,
		Role:         req.Role,
		Department:   req.Department,
		Subject:      req.Subject,
		Designation:  req.Designation,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
	}
	if err := s.faculty.Create(ctx, f); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrFacultyExists
		}
		return nil, fmt.Errorf("create faculty: %w", err)
	}

	if err := s.timetable.ReplaceFacultyTimetable(ctx, f.FacultyID, req.Timetable); err != nil {
		return nil, fmt.Errorf("store timetable: %w", err)
	}

	s.log.Info().Str("faculty_id", f.FacultyID).Str("role", f.Role).Msg("Faculty created")
	return f, nil
}

// Get retrieves a faculty member with their timetable.
func (s *FacultyService) Get(ctx context.Context, facultyID string) (*model.Faculty, []model.FacultyTimetableDay, error) {
	f, err := s.faculty.GetByFacultyID(ctx, facultyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrFacultyNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	tt, err := s.timetable.GetFacultyTimetable(ctx, facultyID)
	if err != nil {
		return nil, nil, fmt.Errorf("load timetable: %w", err)
	}
	return f, tt, nil
}

// List retrieves all faculty, optionally filtered by department.
func (s *FacultyService) List(ctx context.Context, department string) ([]model.Faculty, error) {
	if department != "" {
		return s.faculty.ListByDepartment(ctx, department)
	}
	return s.faculty.List(ctx)
}

// Update modifies a faculty profile. An empty password keeps the stored
// hash; a nil timetable keeps the stored timetable.
func (s *FacultyService) Update(ctx context.Context, facultyID string, req *model.UpdateFacultyRequest) (*model.Faculty, error) {
	var hash string
	if req.Password != "" {
		var err error
		hash, err = s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	f := &model.Faculty{
		FacultyID:    facultyID,
		Name:         req.Name,
		Role:         req.Role,
		Department:   req.Department,
		Subject:      req.Subject,
		Designation:  req.Designation,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
	}
	err := s.faculty.Update(ctx, f)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFacultyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update faculty: %w", err)
	}

	if req.Timetable != nil {
		if err := s.timetable.ReplaceFacultyTimetable(ctx, facultyID, req.Timetable); err != nil {
			return nil, fmt.Errorf("replace timetable: %w", err)
		}
	}

	s.log.Info().Str("faculty_id", facultyID).Msg("Faculty updated")
	return s.faculty.GetByFacultyID(ctx, facultyID)
}

// Delete removes a faculty member. Timetable entries cascade in the store.
func (s *FacultyService) Delete(ctx context.Context, facultyID string) error {
	err := s.faculty.Delete(ctx, facultyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrFacultyNotFound
	}
	if err == nil {
		s.log.Info().Str("faculty_id", facultyID).Msg("Faculty deleted")
	}
	return err
}

// Login authenticates a faculty member and issues a token carrying their
// role.
func (s *FacultyService) Login(ctx context.Context, req *model.FacultyLoginRequest) (string, *model.Faculty, error) {
	f, err := s.faculty.GetByFacultyID(ctx, req.FacultyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("find faculty: %w", err)
	}
	if err := s.auth.CheckPassword(f.PasswordHash, req.Password); err != nil {
		return "", nil, err
	}

	token, err := s.auth.GenerateFacultyToken(f.FacultyID, f.Role)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, f, nil
}

// Classes returns the distinct (year, department, section, subject)
// combinations a faculty member teaches, derived from their timetable in
// first-seen order.
func (s *FacultyService) Classes(ctx context.Context, facultyID string) ([]model.ClassScope, error) {
	tt, err := s.timetable.GetFacultyTimetable(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	return DistinctClasses(tt), nil
}

// TodayClasses returns the non-empty slots of the faculty member's
// timetable for today's weekday. Sundays have no timetable and yield an
// empty list.
func (s *FacultyService) TodayClasses(ctx context.Context, facultyID string, now time.Time) ([]model.TodayClass, error) {
	tt, err := s.timetable.GetFacultyTimetable(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	return ClassesOn(tt, now.Weekday().String()), nil
}

// DistinctClasses collapses a weekly timetable into its distinct class
// scopes, skipping free periods (slots without a subject).
func DistinctClasses(days []model.FacultyTimetableDay) []model.ClassScope {
	seen := make(map[model.ClassScope]bool)
	var classes []model.ClassScope
	for _, day := range days {
		for _, p := range day.Periods {
			if p.Subject == "" {
				continue
			}
			scope := model.ClassScope{
				Year:       p.Year,
				Department: p.Department,
				Section:    p.Section,
				Subject:    p.Subject,
			}
			if !seen[scope] {
				seen[scope] = true
				classes = append(classes, scope)
			}
		}
	}
	return classes
}

// ClassesOn returns the taught slots of one weekday.
func ClassesOn(days []model.FacultyTimetableDay, weekday string) []model.TodayClass {
	var classes []model.TodayClass
	for _, day := range days {
		if day.Day != weekday {
			continue
		}
		for _, p := range day.Periods {
			if p.Subject == "" {
				continue
			}
			classes = append(classes, model.TodayClass{
				ProgramYear: p.Year,
				Department:  p.Department,
				Section:     p.Section,
				Subject:     p.Subject,
			})
		}
	}
	return classes
}
