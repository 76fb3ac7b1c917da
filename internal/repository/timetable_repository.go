package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkrcet/attendance-backend/internal/model"
)

// TimetableRepository handles section and faculty weekly timetables.
// Timetables are replaced wholesale, never patched slot by slot.
type TimetableRepository struct {
	pool *pgxpool.Pool
}

// NewTimetableRepository creates a new TimetableRepository.
func NewTimetableRepository(pool *pgxpool.Pool) *TimetableRepository {
	return &TimetableRepository{pool: pool}
}

// ReplaceSectionTimetable swaps a section's whole weekly timetable in one
// transaction.
func (r *TimetableRepository) ReplaceSectionTimetable(ctx context.Context, sectionID int, days []model.SectionTimetableDay) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM section_timetable_entries WHERE section_id = $1`, sectionID); err != nil {
		return err
	}

	for _, day := range days {
		for _, p := range day.Periods {
			if _, err := tx.Exec(ctx,
				`INSERT INTO section_timetable_entries
				   (section_id, day, period_number, subject, faculty_name)
				 VALUES ($1,$2,$3,$4,$5)`,
				sectionID, day.Day, p.PeriodNumber, p.Subject, p.FacultyName); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// GetSectionTimetable returns a section's timetable grouped by weekday in
// school-week order.
func (r *TimetableRepository) GetSectionTimetable(ctx context.Context, sectionID int) ([]model.SectionTimetableDay, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT day, period_number, subject, faculty_name
		 FROM section_timetable_entries
		 WHERE section_id = $1 ORDER BY period_number`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[string][]model.SectionPeriod)
	for rows.Next() {
		var day string
		var p model.SectionPeriod
		if err := rows.Scan(&day, &p.PeriodNumber, &p.Subject, &p.FacultyName); err != nil {
			return nil, err
		}
		byDay[day] = append(byDay[day], p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var days []model.SectionTimetableDay
	for _, name := range model.Weekdays {
		if periods, ok := byDay[name]; ok {
			days = append(days, model.SectionTimetableDay{Day: name, Periods: periods})
		}
	}
	return days, nil
}

// ReplaceFacultyTimetable swaps a faculty member's whole weekly timetable.
func (r *TimetableRepository) ReplaceFacultyTimetable(ctx context.Context, facultyID string, days []model.FacultyTimetableDay) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM faculty_timetable_entries WHERE faculty_id = $1`, facultyID); err != nil {
		return err
	}

	for _, day := range days {
		for _, p := range day.Periods {
			if _, err := tx.Exec(ctx,
				`INSERT INTO faculty_timetable_entries
				   (faculty_id, day, period_number, subject, year, department, section)
				 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				facultyID, day.Day, p.PeriodNumber, p.Subject, p.Year, p.Department, p.Section); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// GetFacultyTimetable returns a faculty member's timetable grouped by
// weekday in school-week order.
func (r *TimetableRepository) GetFacultyTimetable(ctx context.Context, facultyID string) ([]model.FacultyTimetableDay, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT day, period_number, subject, year, department, section
		 FROM faculty_timetable_entries
		 WHERE faculty_id = $1 ORDER BY period_number`, facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[string][]model.FacultyPeriod)
	for rows.Next() {
		var day string
		var p model.FacultyPeriod
		if err := rows.Scan(&day, &p.PeriodNumber, &p.Subject, &p.Year, &p.Department, &p.Section); err != nil {
			return nil, err
		}
		byDay[day] = append(byDay[day], p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var days []model.FacultyTimetableDay
	for _, name := range model.Weekdays {
		if periods, ok := byDay[name]; ok {
			days = append(days, model.FacultyTimetableDay{Day: name, Periods: periods})
		}
	}
	return days, nil
}
