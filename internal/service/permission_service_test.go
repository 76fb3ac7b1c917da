package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/model"
)

type fakePermissionStore struct {
	grants []model.EditPermission
}

func (f *fakePermissionStore) Insert(ctx context.Context, p *model.EditPermission) error {
	p.ID = uuid.New()
	f.grants = append(f.grants, *p)
	return nil
}

func (f *fakePermissionStore) FindByFaculty(ctx context.Context, facultyID string) ([]model.EditPermission, error) {
	var out []model.EditPermission
	for _, g := range f.grants {
		if g.FacultyID == facultyID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakePermissionStore) Delete(ctx context.Context, id uuid.UUID) error {
	for i, g := range f.grants {
		if g.ID == id {
			f.grants = append(f.grants[:i], f.grants[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func testGrant() model.EditPermission {
	return model.EditPermission{
		FacultyID:  "FAC01",
		Year:       "III",
		Department: "CSE",
		Section:    "A",
		StartDate:  "2025-01-06",
		EndDate:    "2025-01-10",
		StartTime:  time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC),
	}
}

func TestGrantMatches(t *testing.T) {
	within := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		mutate     func(g *model.EditPermission)
		targetDate string
		now        time.Time
		want       bool
	}{
		{"inside window", nil, "2025-01-08", within, true},
		{"target date at start bound", nil, "2025-01-06", within, true},
		{"target date at end bound", nil, "2025-01-10", within, true},
		{"target date before range", nil, "2025-01-05", within, false},
		{"target date after range", nil, "2025-01-11", within, false},
		{"now at exact start instant", nil, "2025-01-08", time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), true},
		{"now at exact end instant", nil, "2025-01-08", time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC), true},
		{"now before window opens", nil, "2025-01-08", time.Date(2025, 1, 6, 8, 59, 59, 0, time.UTC), false},
		{"now after window closes", nil, "2025-01-08", time.Date(2025, 1, 10, 17, 0, 1, 0, time.UTC), false},
		{"wrong year", func(g *model.EditPermission) { g.Year = "II" }, "2025-01-08", within, false},
		{"wrong department", func(g *model.EditPermission) { g.Department = "ECE" }, "2025-01-08", within, false},
		{"wrong section", func(g *model.EditPermission) { g.Section = "B" }, "2025-01-08", within, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGrant()
			if tt.mutate != nil {
				tt.mutate(&g)
			}
			got := GrantMatches(&g, tt.targetDate, "III", "CSE", "A", tt.now)
			if got != tt.want {
				t.Errorf("GrantMatches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGrantRejectsInvertedRanges(t *testing.T) {
	svc := NewPermissionService(&fakePermissionStore{}, zerolog.Nop())

	_, err := svc.Grant(context.Background(), &model.GrantPermissionRequest{
		FacultyID: "FAC01", Year: "III", Department: "CSE", Section: "A",
		StartDate: "2025-01-10", EndDate: "2025-01-06",
		StartTime: time.Now(), EndTime: time.Now().Add(time.Hour),
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for inverted dates, got %v", err)
	}

	_, err = svc.Grant(context.Background(), &model.GrantPermissionRequest{
		FacultyID: "FAC01", Year: "III", Department: "CSE", Section: "A",
		StartDate: "2025-01-06", EndDate: "2025-01-10",
		StartTime: time.Now().Add(time.Hour), EndTime: time.Now(),
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for inverted times, got %v", err)
	}
}

func TestCanEditFirstMatchWins(t *testing.T) {
	store := &fakePermissionStore{}
	svc := NewPermissionService(store, zerolog.Nop())

	expired := testGrant()
	expired.StartTime = time.Now().Add(-48 * time.Hour)
	expired.EndTime = time.Now().Add(-24 * time.Hour)
	expired.ID = uuid.New()
	store.grants = append(store.grants, expired)

	active := testGrant()
	active.StartTime = time.Now().Add(-time.Hour)
	active.EndTime = time.Now().Add(time.Hour)
	active.StartDate = "2020-01-01"
	active.EndDate = "2099-12-31"
	active.ID = uuid.New()
	store.grants = append(store.grants, active)

	allowed, grant, err := svc.CanEdit(context.Background(), "FAC01", "2025-01-08", "III", "CSE", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatal("expected edit to be allowed")
	}
	if grant == nil || grant.ID != active.ID {
		t.Errorf("expected the active grant to be returned")
	}

	allowed, _, err = svc.CanEdit(context.Background(), "FAC01", "2025-01-08", "III", "ECE", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("scope mismatch must not be allowed")
	}
}

func TestRevokeUnknownGrant(t *testing.T) {
	svc := NewPermissionService(&fakePermissionStore{}, zerolog.Nop())
	err := svc.Revoke(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error revoking unknown grant")
	}
}
