package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/model"
)

// PermissionStore is the grant surface the authorizer needs. Implemented
// by repository.PermissionRepository.
type PermissionStore interface {
	Insert(ctx context.Context, p *model.EditPermission) error
	FindByFaculty(ctx context.Context, facultyID string) ([]model.EditPermission, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PermissionService manages edit-permission grants and answers whether a
// faculty member may currently edit a given target day and scope.
type PermissionService struct {
	store PermissionStore
	log   zerolog.Logger
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(store PermissionStore, log zerolog.Logger) *PermissionService {
	return &PermissionService{
		store: store,
		log:   log.With().Str("component", "permission_service").Logger(),
	}
}

// Grant stores a new edit window after range validation. Overlapping
// grants for the same faculty are allowed.
func (s *PermissionService) Grant(ctx context.Context, req *model.GrantPermissionRequest) (*model.EditPermission, error) {
	if req.EndDate < req.StartDate {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidRange)
	}
	if req.EndTime.Before(req.StartTime) {
		return nil, fmt.Errorf("%w: end time before start time", ErrInvalidRange)
	}

	grant := &model.EditPermission{
		FacultyID:  req.FacultyID,
		Year:       req.Year,
		Department: req.Department,
		Section:    req.Section,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if err := s.store.Insert(ctx, grant); err != nil {
		return nil, fmt.Errorf("insert grant: %w", err)
	}

	s.log.Info().
		Str("faculty_id", grant.FacultyID).
		Str("year", grant.Year).
		Str("department", grant.Department).
		Str("section", grant.Section).
		Str("start_date", grant.StartDate).
		Str("end_date", grant.EndDate).
		Msg("Edit permission granted")
	return grant, nil
}

// List returns every grant held by a faculty member.
func (s *PermissionService) List(ctx context.Context, facultyID string) ([]model.EditPermission, error) {
	return s.store.FindByFaculty(ctx, facultyID)
}

// Revoke deletes a grant by ID.
func (s *PermissionService) Revoke(ctx context.Context, id uuid.UUID) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrGrantNotFound
	}
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	s.log.Info().Str("grant_id", id.String()).Msg("Edit permission revoked")
	return nil
}

// CanEdit reports whether facultyID may edit attendance of targetDate
// (YYYY-MM-DD, defaults to today when empty) for the exact section scope.
// The first matching grant is returned alongside true.
func (s *PermissionService) CanEdit(ctx context.Context, facultyID, targetDate, year, department, section string) (bool, *model.EditPermission, error) {
	now := time.Now()
	if targetDate == "" {
		targetDate = now.Format("2006-01-02")
	}

	grants, err := s.store.FindByFaculty(ctx, facultyID)
	if err != nil {
		return false, nil, fmt.Errorf("load grants: %w", err)
	}
	for i := range grants {
		if GrantMatches(&grants[i], targetDate, year, department, section, now) {
			return true, &grants[i], nil
		}
	}
	return false, nil, nil
}

// GrantMatches reports whether a grant authorizes editing targetDate for
// the given scope at instant now. The scope must match exactly; the date
// range is an inclusive string comparison of YYYY-MM-DD values; the time
// range is an inclusive comparison of absolute instants.
func GrantMatches(g *model.EditPermission, targetDate, year, department, section string, now time.Time) bool {
	if g.Year != year || g.Department != department || g.Section != section {
		return false
	}
	if targetDate < g.StartDate || targetDate > g.EndDate {
		return false
	}
	if now.Before(g.StartTime) || now.After(g.EndTime) {
		return false
	}
	return true
}
