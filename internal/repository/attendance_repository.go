package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkrcet/attendance-backend/internal/model"
)

// ErrDuplicateKey is returned by InsertStrict when a record already exists
// for the composite key. It is how a lost insert race surfaces instead of a
// silent duplicate.
var ErrDuplicateKey = errors.New("attendance record already exists for key")

const attendanceColumns = `id, day::text, period, subject, topic, remarks, faculty_name,
		 phone_number, year, department, section, entries, created_at, updated_at`

// AttendanceRepository handles attendance record access. Multi-row reads
// always order by id so aggregation sees records in insertion order.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

func scanRecord(row pgx.Row) (*model.AttendanceRecord, error) {
	r := &model.AttendanceRecord{}
	err := row.Scan(&r.ID, &r.Date, &r.Period, &r.Subject, &r.Topic, &r.Remarks,
		&r.FacultyName, &r.PhoneNumber, &r.Year, &r.Department, &r.Section,
		&r.Entries, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *AttendanceRepository) queryRecords(ctx context.Context, query string, args ...any) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// FindByDate retrieves every record for a calendar day across all scopes.
func (r *AttendanceRepository) FindByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	return r.queryRecords(ctx,
		`SELECT `+attendanceColumns+`
		 FROM attendance_records WHERE day = $1 ORDER BY id`, date)
}

// FindByScope retrieves records for one day and section scope.
func (r *AttendanceRepository) FindByScope(ctx context.Context, date, year, department, section string) ([]model.AttendanceRecord, error) {
	return r.queryRecords(ctx,
		`SELECT `+attendanceColumns+`
		 FROM attendance_records
		 WHERE day = $1 AND year = $2 AND department = $3 AND section = $4
		 ORDER BY id`, date, year, department, section)
}

// FindByScopeAllDates retrieves every record of one section scope across
// every calendar day, for cumulative views.
func (r *AttendanceRepository) FindByScopeAllDates(ctx context.Context, year, department, section string) ([]model.AttendanceRecord, error) {
	return r.queryRecords(ctx,
		`SELECT `+attendanceColumns+`
		 FROM attendance_records
		 WHERE year = $1 AND department = $2 AND section = $3
		 ORDER BY id`, year, department, section)
}

// FindBySubject retrieves all records of one subject for a section scope,
// across all dates.
func (r *AttendanceRepository) FindBySubject(ctx context.Context, year, department, section, subject string) ([]model.AttendanceRecord, error) {
	return r.queryRecords(ctx,
		`SELECT `+attendanceColumns+`
		 FROM attendance_records
		 WHERE year = $1 AND department = $2 AND section = $3 AND subject = $4
		 ORDER BY id`, year, department, section, subject)
}

// FindByRollNumber retrieves every record containing an entry for the given
// roll number, using JSONB containment on the entries array.
func (r *AttendanceRepository) FindByRollNumber(ctx context.Context, rollNumber string) ([]model.AttendanceRecord, error) {
	return r.queryRecords(ctx,
		`SELECT `+attendanceColumns+`
		 FROM attendance_records
		 WHERE entries @> jsonb_build_array(jsonb_build_object('rollNumber', $1::text))
		 ORDER BY id`, rollNumber)
}

// MarkedPeriods returns the distinct period numbers already recorded for a
// day and scope.
func (r *AttendanceRepository) MarkedPeriods(ctx context.Context, date, year, department, section string) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT period FROM attendance_records
		 WHERE day = $1 AND year = $2 AND department = $3 AND section = $4
		 ORDER BY period`, date, year, department, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// InsertStrict inserts a new record and fails with ErrDuplicateKey if one
// already exists for the composite key. The unique index is the arbiter, so
// two concurrent marks for the same key cannot both insert.
func (r *AttendanceRepository) InsertStrict(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO attendance_records
		   (day, period, subject, topic, remarks, faculty_name, phone_number,
		    year, department, section, entries)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (day, period, year, department, section) DO NOTHING
		 RETURNING `+attendanceColumns,
		rec.Date, rec.Period, rec.Subject, rec.Topic, rec.Remarks,
		rec.FacultyName, rec.PhoneNumber, rec.Year, rec.Department, rec.Section,
		rec.Entries)

	saved, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDuplicateKey
	}
	return saved, err
}

// Upsert writes a record for its key, overwriting subject, topic, remarks,
// faculty fields and the whole entries array if a record already exists.
// Returns the stored record and whether it was newly created.
func (r *AttendanceRepository) Upsert(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, bool, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO attendance_records
		   (day, period, subject, topic, remarks, faculty_name, phone_number,
		    year, department, section, entries)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (day, period, year, department, section) DO UPDATE SET
		   subject = EXCLUDED.subject,
		   topic = EXCLUDED.topic,
		   remarks = EXCLUDED.remarks,
		   faculty_name = EXCLUDED.faculty_name,
		   phone_number = EXCLUDED.phone_number,
		   entries = EXCLUDED.entries,
		   updated_at = NOW()
		 RETURNING `+attendanceColumns+`, (xmax = 0) AS inserted`,
		rec.Date, rec.Period, rec.Subject, rec.Topic, rec.Remarks,
		rec.FacultyName, rec.PhoneNumber, rec.Year, rec.Department, rec.Section,
		rec.Entries)

	saved := &model.AttendanceRecord{}
	var inserted bool
	err := row.Scan(&saved.ID, &saved.Date, &saved.Period, &saved.Subject, &saved.Topic,
		&saved.Remarks, &saved.FacultyName, &saved.PhoneNumber, &saved.Year,
		&saved.Department, &saved.Section, &saved.Entries, &saved.CreatedAt,
		&saved.UpdatedAt, &inserted)
	if err != nil {
		return nil, false, err
	}
	return saved, inserted, nil
}
