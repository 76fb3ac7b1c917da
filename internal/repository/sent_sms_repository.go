package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkrcet/attendance-backend/internal/model"
)

// SentSMSRepository logs delivered absentee alerts.
type SentSMSRepository struct {
	pool *pgxpool.Pool
}

// NewSentSMSRepository creates a new SentSMSRepository.
func NewSentSMSRepository(pool *pgxpool.Pool) *SentSMSRepository {
	return &SentSMSRepository{pool: pool}
}

// Insert records one delivery. A rerun of the batch for the same day and
// roll number overwrites the previous log row rather than failing.
func (r *SentSMSRepository) Insert(ctx context.Context, s *model.SentSMS) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO sent_sms (day, phone, roll_number, message)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (day, roll_number) DO UPDATE SET
		   phone = EXCLUDED.phone, message = EXCLUDED.message, sent_at = NOW()
		 RETURNING id, sent_at`,
		s.Date, s.Phone, s.RollNumber, s.Message,
	).Scan(&s.ID, &s.SentAt)
}

// Exists reports whether an alert was already delivered for (date, roll).
func (r *SentSMSRepository) Exists(ctx context.Context, date, rollNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sent_sms WHERE day = $1 AND roll_number = $2)`,
		date, rollNumber).Scan(&exists)
	return exists, err
}

// ListByDate returns the delivery log for one day.
func (r *SentSMSRepository) ListByDate(ctx context.Context, date string) ([]model.SentSMS, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, day::text, phone, roll_number, message, sent_at
		 FROM sent_sms WHERE day = $1 ORDER BY sent_at`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.SentSMS
	for rows.Next() {
		var s model.SentSMS
		if err := rows.Scan(&s.ID, &s.Date, &s.Phone, &s.RollNumber, &s.Message, &s.SentAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
