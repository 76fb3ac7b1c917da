package model

import "time"

// SentSMS is the delivery log for absentee alerts. The (date, rollNumber)
// pair is what the optional at-most-once mode checks before resending.
type SentSMS struct {
	ID         int64     `json:"id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Phone      string    `json:"phone"`
	RollNumber string    `json:"rollNumber"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sent_at"`
}
