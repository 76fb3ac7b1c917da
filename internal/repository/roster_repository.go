package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkrcet/attendance-backend/internal/model"
)

const studentColumns = `id, section_id, roll_number, name, father_name, role,
		 password_hash, mobile_number, guardian_mobile_number, created_at`

// RosterRepository handles the flattened Year → Department → Section →
// Student hierarchy.
type RosterRepository struct {
	pool *pgxpool.Pool
}

// NewRosterRepository creates a new RosterRepository.
func NewRosterRepository(pool *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{pool: pool}
}

// CreateSection inserts one section. Duplicate (year, department, name)
// raises a unique violation the handler maps to a conflict.
func (r *RosterRepository) CreateSection(ctx context.Context, s *model.Section) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO sections (year, department, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		s.Year, s.Department, s.Name,
	).Scan(&s.ID, &s.CreatedAt)
}

// GetSection retrieves a section by its composite key.
func (r *RosterRepository) GetSection(ctx context.Context, year, department, name string) (*model.Section, error) {
	s := &model.Section{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, year, department, name, created_at
		 FROM sections WHERE year = $1 AND department = $2 AND name = $3`,
		year, department, name,
	).Scan(&s.ID, &s.Year, &s.Department, &s.Name, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListYears returns the distinct year names in roster order.
func (r *RosterRepository) ListYears(ctx context.Context) ([]string, error) {
	return r.listStrings(ctx, `SELECT DISTINCT year FROM sections ORDER BY year`)
}

// ListDepartments returns the distinct departments under a year.
func (r *RosterRepository) ListDepartments(ctx context.Context, year string) ([]string, error) {
	return r.listStrings(ctx,
		`SELECT DISTINCT department FROM sections WHERE year = $1 ORDER BY department`, year)
}

// ListSections returns the sections under a year and department.
func (r *RosterRepository) ListSections(ctx context.Context, year, department string) ([]model.Section, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, year, department, name, created_at
		 FROM sections WHERE year = $1 AND department = $2 ORDER BY name`,
		year, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.Year, &s.Department, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// AddStudents bulk-inserts students into a section inside one transaction,
// so a mid-batch failure leaves no partial roster.
func (r *RosterRepository) AddStudents(ctx context.Context, sectionID int, students []model.Student) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range students {
		s := &students[i]
		err := tx.QueryRow(ctx,
			`INSERT INTO students
			   (section_id, roll_number, name, father_name, role, password_hash,
			    mobile_number, guardian_mobile_number)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			 RETURNING id, created_at`,
			sectionID, s.RollNumber, s.Name, s.FatherName, s.Role, s.PasswordHash,
			s.MobileNumber, s.GuardianMobileNumber,
		).Scan(&s.ID, &s.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert student %s: %w", s.RollNumber, err)
		}
		s.SectionID = sectionID
	}

	return tx.Commit(ctx)
}

// ListStudents returns a section's roster in insertion order.
func (r *RosterRepository) ListStudents(ctx context.Context, sectionID int) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students WHERE section_id = $1 ORDER BY id`,
		sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

// GetStudentByRoll retrieves a student and their owning section.
func (r *RosterRepository) GetStudentByRoll(ctx context.Context, rollNumber string) (*model.Student, *model.Section, error) {
	s := &model.Student{}
	sec := &model.Section{}
	err := r.pool.QueryRow(ctx,
		`SELECT st.id, st.section_id, st.roll_number, st.name, st.father_name,
		        st.role, st.password_hash, st.mobile_number, st.guardian_mobile_number,
		        st.created_at,
		        sec.id, sec.year, sec.department, sec.name, sec.created_at
		 FROM students st
		 JOIN sections sec ON sec.id = st.section_id
		 WHERE st.roll_number = $1`, rollNumber,
	).Scan(&s.ID, &s.SectionID, &s.RollNumber, &s.Name, &s.FatherName, &s.Role,
		&s.PasswordHash, &s.MobileNumber, &s.GuardianMobileNumber, &s.CreatedAt,
		&sec.ID, &sec.Year, &sec.Department, &sec.Name, &sec.CreatedAt)
	if err != nil {
		return nil, nil, err
	}
	return s, sec, nil
}

// FindStudentsByRolls retrieves students for a set of roll numbers in one
// pass. Used for the absentee contact join.
func (r *RosterRepository) FindStudentsByRolls(ctx context.Context, rollNumbers []string) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students WHERE roll_number = ANY($1)`,
		rollNumbers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

// DeleteStudentByRoll removes one student. Returns pgx.ErrNoRows when the
// roll number is unknown.
func (r *RosterRepository) DeleteStudentByRoll(ctx context.Context, rollNumber string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE roll_number = $1`, rollNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteStudentsInSection removes every student of a section, returning the
// number removed.
func (r *RosterRepository) DeleteStudentsInSection(ctx context.Context, sectionID int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE section_id = $1`, sectionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *RosterRepository) listStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.SectionID, &s.RollNumber, &s.Name, &s.FatherName,
		&s.Role, &s.PasswordHash, &s.MobileNumber, &s.GuardianMobileNumber, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
