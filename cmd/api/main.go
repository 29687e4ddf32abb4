package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/chamada/internal/api"
	"github.com/saturnino-fabrica-de-software/chamada/internal/attendance"
	"github.com/saturnino-fabrica-de-software/chamada/internal/audit"
	"github.com/saturnino-fabrica-de-software/chamada/internal/config"
	"github.com/saturnino-fabrica-de-software/chamada/internal/database"
	"github.com/saturnino-fabrica-de-software/chamada/internal/detector/rekognition"
	"github.com/saturnino-fabrica-de-software/chamada/internal/enrollment"
	"github.com/saturnino-fabrica-de-software/chamada/internal/pipeline"
	"github.com/saturnino-fabrica-de-software/chamada/internal/repository"
	"github.com/saturnino-fabrica-de-software/chamada/internal/signature"
	"github.com/saturnino-fabrica-de-software/chamada/internal/webhook"
	"github.com/saturnino-fabrica-de-software/chamada/internal/ws"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Chamada API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.Float64("similarity_threshold", cfg.SimilarityThreshold),
		slog.Duration("attendance_cooldown", cfg.AttendanceCooldown),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		status, err := database.MigrateUp(ctx, cfg.DatabaseURL, "chamada")
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("database schema ready", slog.String("version", status.String()))
	}

	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	enrollmentRepo := repository.NewEnrollmentRepository(pool, cfg.SimilarityThreshold)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	matcher := signature.NewMatcher(cfg.SimilarityThreshold)
	enrollmentService := enrollment.NewService(enrollment.NewTable(), enrollmentRepo, matcher, logger)

	seedCtx, cancelSeed := context.WithTimeout(ctx, cfg.StoreTimeout)
	_, err = enrollmentService.Seed(seedCtx)
	cancelSeed()
	if err != nil {
		return fmt.Errorf("failed to load enrollments: %w", err)
	}

	// Background workers stop on workerCtx; the recorder drains its queue first
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	start := func(run func(context.Context)) {
		workers.Add(1)
		go func() {
			defer workers.Done()
			run(workerCtx)
		}()
	}

	recorder := attendance.NewRecorder(attendanceRepo, cfg.AttendanceQueueSize, cfg.StoreTimeout, logger)
	start(recorder.Run)

	hub := ws.NewHub()
	start(hub.Run)

	auditLogger := audit.NewSlogLogger(logger)

	sinks := attendance.MultiSink{recorder, hub, auditLogger}
	if cfg.WebhookEnabled() {
		notifier := webhook.NewNotifier(cfg.WebhookURL, cfg.WebhookSecret, cfg.AttendanceQueueSize, logger)
		start(notifier.Run)
		sinks = append(sinks, notifier)
		logger.Info("attendance webhook enabled", slog.String("url", cfg.WebhookURL))
	}

	debouncer := attendance.NewDebouncer(
		attendance.NewRecentSet(),
		sinks,
		cfg.AttendanceCooldown,
		attendance.SystemClock(),
		logger,
	)

	recognition := pipeline.New(enrollmentService, debouncer, hub, logger)
	start(recognition.Run)

	deps := &api.Dependencies{
		DB:              pool,
		Enrollment:      enrollmentService,
		Pipeline:        recognition,
		Attendance:      recorder,
		Hub:             hub,
		Audit:           auditLogger,
		EnrollRateLimit: cfg.EnrollRateLimit,
		Version:         version,
	}

	if cfg.DetectorType == config.DetectorRekognition {
		detectorCfg := rekognition.DefaultConfig()
		detectorCfg.Region = cfg.AWSRegion

		detector, err := rekognition.New(ctx, detectorCfg, logger)
		if err != nil {
			cancelWorkers()
			workers.Wait()
			return fmt.Errorf("failed to create rekognition detector: %w", err)
		}
		deps.Detector = detector
		logger.Info("rekognition detector enabled", slog.String("region", cfg.AWSRegion))
	}

	router := api.NewRouter(logger, deps)
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		serveErr = fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	cancelWorkers()

	done := make(chan struct{})
	go func() {
		workers.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		logger.Warn("workers did not stop in time")
	}

	logger.Info("server stopped")
	return serveErr
}
