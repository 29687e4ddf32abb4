// Package attendance decides when a recognized identity gets an attendance
// record and ships those records to their sinks.
package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

const DefaultCooldown = 10 * time.Second

type Debouncer struct {
	recent   *RecentSet
	sink     EventSink
	cooldown time.Duration
	clock    Clock
	logger   *slog.Logger
}

func NewDebouncer(recent *RecentSet, sink EventSink, cooldown time.Duration, clock Clock, logger *slog.Logger) *Debouncer {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Debouncer{
		recent:   recent,
		sink:     sink,
		cooldown: cooldown,
		clock:    clock,
		logger:   logger,
	}
}

func (d *Debouncer) Cooldown() time.Duration {
	return d.cooldown
}

// MarkIfDue emits one attendance event for key unless it already emitted
// within the cooldown. The key is released by a one-shot timer whether or not
// the sink accepted the event.
func (d *Debouncer) MarkIfDue(ctx context.Context, key, name string) bool {
	if !d.recent.TryAdd(key) {
		return false
	}

	d.clock.AfterFunc(d.cooldown, func() {
		d.recent.Remove(key)
	})

	event := domain.Attendance{
		ID:           uuid.New(),
		Name:         name,
		SignatureKey: key,
		Timestamp:    d.clock.Now(),
	}

	if err := d.sink.Emit(ctx, event); err != nil {
		d.logger.Warn("attendance emit failed",
			"name", name,
			"signature_key", key,
			"error", err,
		)
	}

	return true
}
