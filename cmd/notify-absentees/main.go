package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tkrcet/attendance-backend/internal/config"
	"github.com/tkrcet/attendance-backend/internal/database"
	"github.com/tkrcet/attendance-backend/internal/logger"
	"github.com/tkrcet/attendance-backend/internal/repository"
	"github.com/tkrcet/attendance-backend/internal/service"
	"github.com/tkrcet/attendance-backend/internal/sms"
)

func main() {
	date := flag.String("date", time.Now().Format("2006-01-02"), "attendance date to notify for (YYYY-MM-DD)")
	flag.Parse()

	if _, err := time.Parse("2006-01-02", *date); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -date %q: expected YYYY-MM-DD\n", *date)
		os.Exit(1)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Services ───────────────────────────────────────────
	attendanceRepo := repository.NewAttendanceRepository(pool)
	rosterRepo := repository.NewRosterRepository(pool)
	sentSMSRepo := repository.NewSentSMSRepository(pool)

	reportService := service.NewReportService(attendanceRepo, rosterRepo)
	smsClient := sms.NewClient(cfg, log)
	notifyService := service.NewNotifyService(cfg, reportService, sentSMSRepo, smsClient, rdb, log)

	// ─── Logic ─────────────────────────────────────────────────────────
	results, err := notifyService.SendAbsenteeAlerts(ctx, *date)
	if err != nil {
		log.Fatal().Err(err).Str("date", *date).Msg("Failed to send absentee alerts")
	}

	var sent, failed, skipped int
	for _, r := range results {
		switch r.Status {
		case service.DeliverySent:
			sent++
		case service.DeliveryFailed:
			failed++
		default:
			skipped++
		}
	}

	fmt.Printf("Absentee alerts for %s: %d sent, %d failed, %d skipped\n", *date, sent, failed, skipped)
	if failed > 0 {
		os.Exit(1)
	}
}
