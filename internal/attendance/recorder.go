package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

const (
	DefaultQueueSize    = 64
	DefaultStoreTimeout = 5 * time.Second
	DefaultListLimit    = 100
	MaxListLimit        = 1000
)

var ErrQueueFull = errors.New("attendance queue full")

// Recorder is the EventSink that persists attendance to the Store from its
// own goroutine, so the frame worker never waits on the database.
type Recorder struct {
	store   Store
	queue   chan domain.Attendance
	timeout time.Duration
	logger  *slog.Logger
}

func NewRecorder(store Store, queueSize int, timeout time.Duration, logger *slog.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &Recorder{
		store:   store,
		queue:   make(chan domain.Attendance, queueSize),
		timeout: timeout,
		logger:  logger,
	}
}

// Emit queues the event and returns immediately.
func (r *Recorder) Emit(_ context.Context, event domain.Attendance) error {
	select {
	case r.queue <- event:
		return nil
	default:
		r.logger.Warn("attendance queue full, dropping event",
			"name", event.Name,
			"signature_key", event.SignatureKey,
		)
		return ErrQueueFull
	}
}

// Run persists queued events until ctx is done, then flushes what is left.
func (r *Recorder) Run(ctx context.Context) {
	r.logger.Info("attendance recorder started")

	for {
		select {
		case <-ctx.Done():
			r.drain(context.WithoutCancel(ctx))
			r.logger.Info("attendance recorder stopped")
			return
		case event := <-r.queue:
			r.persist(ctx, event)
		}
	}
}

func (r *Recorder) drain(ctx context.Context) {
	for {
		select {
		case event := <-r.queue:
			r.persist(ctx, event)
		default:
			return
		}
	}
}

func (r *Recorder) persist(ctx context.Context, event domain.Attendance) {
	writeCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.store.CreateAttendance(writeCtx, &event); err != nil {
		r.logger.Error("failed to record attendance",
			"name", event.Name,
			"signature_key", event.SignatureKey,
			"error", err,
		)
		return
	}

	r.logger.Info("attendance recorded", "name", event.Name, "timestamp", event.Timestamp)
}

// List reads the attendance log, newest first.
func (r *Recorder) List(ctx context.Context, since time.Time, limit int) ([]domain.Attendance, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	records, err := r.store.ListAttendance(ctx, since, limit)
	if err != nil {
		return nil, domain.ErrStoreUnavailable.WithError(fmt.Errorf("list attendance: %w", err))
	}
	return records, nil
}
