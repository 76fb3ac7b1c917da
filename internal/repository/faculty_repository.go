package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkrcet/attendance-backend/internal/model"
)

const facultyColumns = `id, faculty_id, name, role, department, subject,
		 designation, phone_number, password_hash, created_at, updated_at`

// FacultyRepository handles faculty data access.
type FacultyRepository struct {
	pool *pgxpool.Pool
}

// NewFacultyRepository creates a new FacultyRepository.
func NewFacultyRepository(pool *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{pool: pool}
}

// Create inserts a new faculty member.
func (r *FacultyRepository) Create(ctx context.Context, f *model.Faculty) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO faculty
		   (faculty_id, name, role, department, subject, designation, phone_number, password_hash)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id, created_at, updated_at`,
		f.FacultyID, f.Name, f.Role, f.Department, f.Subject, f.Designation,
		f.PhoneNumber, f.PasswordHash,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

// GetByFacultyID retrieves a faculty member by their login identifier.
func (r *FacultyRepository) GetByFacultyID(ctx context.Context, facultyID string) (*model.Faculty, error) {
	return scanFaculty(r.pool.QueryRow(ctx,
		`SELECT `+facultyColumns+` FROM faculty WHERE faculty_id = $1`, facultyID))
}

// List retrieves all faculty members.
func (r *FacultyRepository) List(ctx context.Context) ([]model.Faculty, error) {
	return r.queryFaculty(ctx, `SELECT `+facultyColumns+` FROM faculty ORDER BY name`)
}

// ListByDepartment retrieves faculty members of one department.
func (r *FacultyRepository) ListByDepartment(ctx context.Context, department string) ([]model.Faculty, error) {
	return r.queryFaculty(ctx,
		`SELECT `+facultyColumns+` FROM faculty WHERE department = $1 ORDER BY name`, department)
}

// Update modifies a faculty member's profile. An empty passwordHash keeps
// the stored hash.
func (r *FacultyRepository) Update(ctx context.Context, f *model.Faculty) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE faculty SET
		   name = $1, role = $2, department = $3, subject = $4, designation = $5,
		   phone_number = $6,
		   password_hash = CASE WHEN $7 = '' THEN password_hash ELSE $7 END,
		   updated_at = NOW()
		 WHERE faculty_id = $8`,
		f.Name, f.Role, f.Department, f.Subject, f.Designation, f.PhoneNumber,
		f.PasswordHash, f.FacultyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a faculty member by their login identifier.
func (r *FacultyRepository) Delete(ctx context.Context, facultyID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM faculty WHERE faculty_id = $1`, facultyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *FacultyRepository) queryFaculty(ctx context.Context, query string, args ...any) ([]model.Faculty, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Faculty
	for rows.Next() {
		f, err := scanFaculty(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *f)
	}
	return list, rows.Err()
}

func scanFaculty(row pgx.Row) (*model.Faculty, error) {
	f := &model.Faculty{}
	err := row.Scan(&f.ID, &f.FacultyID, &f.Name, &f.Role, &f.Department, &f.Subject,
		&f.Designation, &f.PhoneNumber, &f.PasswordHash, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}
