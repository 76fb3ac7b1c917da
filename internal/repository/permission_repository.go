package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkrcet/attendance-backend/internal/model"
)

// PermissionRepository handles edit-permission grants.
type PermissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository creates a new PermissionRepository.
func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

// Insert stores a grant and returns its generated ID.
func (r *PermissionRepository) Insert(ctx context.Context, p *model.EditPermission) error {
	p.ID = uuid.New()
	return r.pool.QueryRow(ctx,
		`INSERT INTO edit_permissions
		   (id, faculty_id, year, department, section, start_date, end_date, start_time, end_time)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING created_at`,
		p.ID, p.FacultyID, p.Year, p.Department, p.Section,
		p.StartDate, p.EndDate, p.StartTime, p.EndTime,
	).Scan(&p.CreatedAt)
}

// FindByFaculty returns every grant held by a faculty member, newest first.
func (r *PermissionRepository) FindByFaculty(ctx context.Context, facultyID string) ([]model.EditPermission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, faculty_id, year, department, section,
		        start_date::text, end_date::text, start_time, end_time, created_at
		 FROM edit_permissions WHERE faculty_id = $1 ORDER BY created_at DESC`,
		facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []model.EditPermission
	for rows.Next() {
		var g model.EditPermission
		if err := rows.Scan(&g.ID, &g.FacultyID, &g.Year, &g.Department, &g.Section,
			&g.StartDate, &g.EndDate, &g.StartTime, &g.EndTime, &g.CreatedAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// Delete revokes a grant. Returns pgx.ErrNoRows when the grant is unknown.
func (r *PermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM edit_permissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
