package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/model"
	"github.com/tkrcet/attendance-backend/internal/repository"
)

// RosterService manages the year → department → section → student
// hierarchy and the section timetable hanging off it.
type RosterService struct {
	roster    *repository.RosterRepository
	timetable *repository.TimetableRepository
	auth      *AuthService
	log       zerolog.Logger
}

// NewRosterService creates a new RosterService.
func NewRosterService(roster *repository.RosterRepository, timetable *repository.TimetableRepository, auth *AuthService, log zerolog.Logger) *RosterService {
	return &RosterService{
		roster:    roster,
		timetable: timetable,
		auth:      auth,
		log:       log.With().Str("component", "roster_service").Logger(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateSection registers one section under a year/department scope.
func (s *RosterService) CreateSection(ctx context.Context, req *model.CreateSectionRequest) (*model.Section, error) {
	section := &model.Section{
		Year:       req.Year,
		Department: req.Department,
		Name:       req.Name,
	}
	if err := s.roster.CreateSection(ctx, section); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSectionExists
		}
		return nil, fmt.Errorf("create section: %w", err)
	}
	s.log.Info().
		Str("year", section.Year).
		Str("department", section.Department).
		Str("section", section.Name).
		Msg("Section created")
	return section, nil
}

// GetSection resolves a section by its composite key.
func (s *RosterService) GetSection(ctx context.Context, year, department, name string) (*model.Section, error) {
	section, err := s.roster.GetSection(ctx, year, department, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSectionNotFound
	}
	return section, err
}

// ListYears returns all distinct years.
func (s *RosterService) ListYears(ctx context.Context) ([]string, error) {
	return s.roster.ListYears(ctx)
}

// ListDepartments returns the departments under a year.
func (s *RosterService) ListDepartments(ctx context.Context, year string) ([]string, error) {
	return s.roster.ListDepartments(ctx, year)
}

// ListSections returns the sections under a year and department.
func (s *RosterService) ListSections(ctx context.Context, year, department string) ([]model.Section, error) {
	return s.roster.ListSections(ctx, year, department)
}

// AddStudents bulk-adds students to a section, hashing passwords before
// storage. The whole batch succeeds or none of it does.
func (s *RosterService) AddStudents(ctx context.Context, year, department, sectionName string, req *model.AddStudentsRequest) ([]model.Student, error) {
	section, err := s.GetSection(ctx, year, department, sectionName)
	if err != nil {
		return nil, err
	}

	students := make([]model.Student, len(req.Students))
	for i, in := range req.Students {
		hash, err := s.auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", in.RollNumber, err)
		}
		role := in.Role
		if role == "" {
			role = "student"
		}
		students[i] = model.Student{
			RollNumber:           in.RollNumber,
			Name:                 in.Name,
			FatherName:           in.FatherName,
			Role:                 role,
			PasswordHash:         hash,
			MobileNumber:         in.MobileNumber,
			GuardianMobileNumber: in.GuardianMobileNumber,
		}
	}

	if err := s.roster.AddStudents(ctx, section.ID, students); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrStudentExists
		}
		return nil, err
	}

	s.log.Info().
		Int("count", len(students)).
		Str("year", year).
		Str("department", department).
		Str("section", sectionName).
		Msg("Students added")
	return students, nil
}

// ListStudents returns a section's roster in insertion order.
func (s *RosterService) ListStudents(ctx context.Context, year, department, sectionName string) ([]model.Student, error) {
	section, err := s.GetSection(ctx, year, department, sectionName)
	if err != nil {
		return nil, err
	}
	return s.roster.ListStudents(ctx, section.ID)
}

// GetStudent resolves one student and their owning section by roll number.
func (s *RosterService) GetStudent(ctx context.Context, rollNumber string) (*model.Student, *model.Section, error) {
	student, section, err := s.roster.GetStudentByRoll(ctx, rollNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrStudentNotFound
	}
	return student, section, err
}

// RemoveStudent deletes one student by roll number.
func (s *RosterService) RemoveStudent(ctx context.Context, rollNumber string) error {
	err := s.roster.DeleteStudentByRoll(ctx, rollNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStudentNotFound
	}
	if err == nil {
		s.log.Info().Str("roll_number", rollNumber).Msg("Student removed")
	}
	return err
}

// ClearSection removes every student of a section, returning how many were
// deleted. The section itself stays.
func (s *RosterService) ClearSection(ctx context.Context, year, department, sectionName string) (int64, error) {
	section, err := s.GetSection(ctx, year, department, sectionName)
	if err != nil {
		return 0, err
	}
	removed, err := s.roster.DeleteStudentsInSection(ctx, section.ID)
	if err == nil {
		s.log.Info().
			Int64("removed", removed).
			Str("year", year).
			Str("department", department).
			Str("section", sectionName).
			Msg("Section roster cleared")
	}
	return removed, err
}

// ReplaceTimetable swaps a section's whole weekly timetable.
func (s *RosterService) ReplaceTimetable(ctx context.Context, year, department, sectionName string, req *model.UpsertTimetableRequest) error {
	section, err := s.GetSection(ctx, year, department, sectionName)
	if err != nil {
		return err
	}
	for _, day := range req.Timetable {
		if !model.ValidWeekday(day.Day) {
			return fmt.Errorf("unknown weekday %q", day.Day)
		}
	}
	return s.timetable.ReplaceSectionTimetable(ctx, section.ID, req.Timetable)
}

// GetTimetable returns a section's weekly timetable in school-week order.
func (s *RosterService) GetTimetable(ctx context.Context, year, department, sectionName string) ([]model.SectionTimetableDay, error) {
	section, err := s.GetSection(ctx, year, department, sectionName)
	if err != nil {
		return nil, err
	}
	return s.timetable.GetSectionTimetable(ctx, section.ID)
}

// StudentLogin authenticates a student by roll number and password and
// issues a single-session token.
func (s *RosterService) StudentLogin(ctx context.Context, req *model.StudentLoginRequest) (string, *model.Student, *model.Section, error) {
	student, section, err := s.roster.GetStudentByRoll(ctx, req.RollNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, nil, fmt.Errorf("find student: %w", err)
	}
	if err := s.auth.CheckPassword(student.PasswordHash, req.Password); err != nil {
		return "", nil, nil, err
	}

	token, err := s.auth.GenerateStudentToken(ctx, student.RollNumber)
	if err != nil {
		return "", nil, nil, err
	}
	return token, student, section, nil
}
