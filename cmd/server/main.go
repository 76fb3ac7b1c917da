package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/config"
	"github.com/tkrcet/attendance-backend/internal/database"
	"github.com/tkrcet/attendance-backend/internal/handler"
	"github.com/tkrcet/attendance-backend/internal/logger"
	"github.com/tkrcet/attendance-backend/internal/repository"
	"github.com/tkrcet/attendance-backend/internal/router"
	"github.com/tkrcet/attendance-backend/internal/service"
	"github.com/tkrcet/attendance-backend/internal/sms"
	"github.com/tkrcet/attendance-backend/internal/validator"
	"github.com/tkrcet/attendance-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Attendance Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	// ─── Initialize Repositories ───────────────────────────────────────
	attendanceRepo := repository.NewAttendanceRepository(pool)
	rosterRepo := repository.NewRosterRepository(pool)
	timetableRepo := repository.NewTimetableRepository(pool)
	facultyRepo := repository.NewFacultyRepository(pool)
	permissionRepo := repository.NewPermissionRepository(pool)
	sentSMSRepo := repository.NewSentSMSRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	liveFeed := service.NewLiveFeed(rdb)
	attendanceService := service.NewAttendanceService(attendanceRepo, liveFeed, log)
	reportService := service.NewReportService(attendanceRepo, rosterRepo)
	permissionService := service.NewPermissionService(permissionRepo, log)
	rosterService := service.NewRosterService(rosterRepo, timetableRepo, authService, log)
	facultyService := service.NewFacultyService(facultyRepo, timetableRepo, authService, log)
	smsClient := sms.NewClient(cfg, log)
	notifyService := service.NewNotifyService(cfg, reportService, sentSMSRepo, smsClient, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(facultyService, rosterService, authService),
		Attendance: handler.NewAttendanceHandler(attendanceService, permissionService),
		Report:     handler.NewReportHandler(reportService),
		Roster:     handler.NewRosterHandler(rosterService),
		Faculty:    handler.NewFacultyHandler(facultyService),
		Permission: handler.NewPermissionHandler(permissionService),
		Notify:     handler.NewNotifyHandler(notifyService),
		Live:       handler.NewLiveHandler(liveFeed, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	absenteeWorker := worker.NewAbsenteeWorker(notifyService, rdb, log)
	go absenteeWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and let in-flight batches finish.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
