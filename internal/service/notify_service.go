package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/config"
	"github.com/tkrcet/attendance-backend/internal/model"
)

// Sender delivers one SMS. Implemented by sms.Client.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// SentSMSLog is the at-most-once delivery log. Implemented by
// repository.SentSMSRepository.
type SentSMSLog interface {
	Insert(ctx context.Context, entry *model.SentSMS) error
	Exists(ctx context.Context, date, rollNumber string) (bool, error)
	ListByDate(ctx context.Context, date string) ([]model.SentSMS, error)
}

// AbsenteeJob is the queued payload for an absentee-alert batch. Date is
// YYYY-MM-DD; empty means "today at processing time".
type AbsenteeJob struct {
	Date string `json:"date"`
}

// DeliveryStatus classifies one recipient's outcome in a batch.
type DeliveryStatus string

const (
	DeliverySent           DeliveryStatus = "sent"
	DeliveryFailed         DeliveryStatus = "failed"
	DeliverySkippedContact DeliveryStatus = "skipped_no_contact"
	DeliverySkippedAlready DeliveryStatus = "skipped_already_sent"
)

// DeliveryResult is one recipient's outcome. Error is set only for failed
// deliveries.
type DeliveryResult struct {
	RollNumber string         `json:"rollNumber"`
	Phone      string         `json:"phone,omitempty"`
	Status     DeliveryStatus `json:"status"`
	Error      string         `json:"error,omitempty"`
}

// NotifyService sends absentee alerts to guardians. Delivery is best
// effort per recipient; one failed number never aborts the batch.
type NotifyService struct {
	cfg     *config.Config
	reports *ReportService
	sentLog SentSMSLog
	sender  Sender
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewNotifyService creates a new NotifyService.
func NewNotifyService(cfg *config.Config, reports *ReportService, sentLog SentSMSLog, sender Sender, rdb *redis.Client, log zerolog.Logger) *NotifyService {
	return &NotifyService{
		cfg:     cfg,
		reports: reports,
		sentLog: sentLog,
		sender:  sender,
		rdb:     rdb,
		log:     log.With().Str("component", "notify_service").Logger(),
	}
}

// BuildAbsenteeMessage renders the guardian alert text for one absentee.
func BuildAbsenteeMessage(name, rollNumber string, absentCount, periodsPerDay int, date string) string {
	return fmt.Sprintf(
		"Dear Parent, Your ward %s (Roll No: %s) was absent for %d periods out of %d on %s. For any queries, contact the class teacher.",
		name, rollNumber, absentCount, periodsPerDay, date)
}

// SendAbsenteeAlerts runs one alert batch for a date. Every absentee gets
// a result row; recipients without a guardian number are skipped, and with
// SkipAlreadyNotified enabled so are those already logged for the day.
func (s *NotifyService) SendAbsenteeAlerts(ctx context.Context, date string) ([]DeliveryResult, error) {
	absentees, err := s.reports.AbsenteesForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("collect absentees: %w", err)
	}
	if len(absentees) == 0 {
		s.log.Info().Str("date", date).Msg("No absentees, nothing to send")
		return nil, nil
	}

	results := make([]DeliveryResult, 0, len(absentees))
	for _, a := range absentees {
		results = append(results, s.deliver(ctx, date, a))
	}

	sent := 0
	for _, r := range results {
		if r.Status == DeliverySent {
			sent++
		}
	}
	s.log.Info().
		Str("date", date).
		Int("absentees", len(absentees)).
		Int("sent", sent).
		Msg("Absentee alert batch finished")
	return results, nil
}

func (s *NotifyService) deliver(ctx context.Context, date string, a model.Absentee) DeliveryResult {
	if a.Contact == nil || *a.Contact == "" {
		return DeliveryResult{RollNumber: a.RollNumber, Status: DeliverySkippedContact}
	}
	phone := *a.Contact

	if s.cfg.SkipAlreadyNotified {
		already, err := s.sentLog.Exists(ctx, date, a.RollNumber)
		if err != nil {
			return DeliveryResult{RollNumber: a.RollNumber, Phone: phone, Status: DeliveryFailed, Error: err.Error()}
		}
		if already {
			return DeliveryResult{RollNumber: a.RollNumber, Phone: phone, Status: DeliverySkippedAlready}
		}
	}

	msg := BuildAbsenteeMessage(a.Name, a.RollNumber, a.AbsentCount, s.cfg.PeriodsPerDay, date)
	if err := s.sender.Send(ctx, phone, msg); err != nil {
		s.log.Error().Err(err).Str("roll_number", a.RollNumber).Msg("SMS delivery failed")
		return DeliveryResult{RollNumber: a.RollNumber, Phone: phone, Status: DeliveryFailed, Error: err.Error()}
	}

	// Log after delivery; a logging failure should not mask a sent SMS.
	entry := &model.SentSMS{Date: date, Phone: phone, RollNumber: a.RollNumber, Message: msg}
	if err := s.sentLog.Insert(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("roll_number", a.RollNumber).Msg("Failed to log sent SMS")
	}

	return DeliveryResult{RollNumber: a.RollNumber, Phone: phone, Status: DeliverySent}
}

// QueueAbsenteeAlerts enqueues an alert batch for asynchronous processing
// by the absentee worker.
func (s *NotifyService) QueueAbsenteeAlerts(ctx context.Context, date string) error {
	payload, err := json.Marshal(AbsenteeJob{Date: date})
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.AbsenteeAlertsQueue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	s.log.Info().Str("date", date).Msg("Absentee alert batch queued")
	return nil
}

// SentLog returns the delivery log for one day.
func (s *NotifyService) SentLog(ctx context.Context, date string) ([]model.SentSMS, error) {
	return s.sentLog.ListByDate(ctx, date)
}
