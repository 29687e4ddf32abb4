package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// EventSink receives attendance events. Implementations must not block the
// caller on slow I/O.
type EventSink interface {
	Emit(ctx context.Context, event domain.Attendance) error
}

// Store is the append-only attendance log.
type Store interface {
	CreateAttendance(ctx context.Context, a *domain.Attendance) error
	ListAttendance(ctx context.Context, since time.Time, limit int) ([]domain.Attendance, error)
}

// MultiSink fans an event out to every sink and joins their errors.
type MultiSink []EventSink

func (m MultiSink) Emit(ctx context.Context, event domain.Attendance) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(ctx context.Context, event domain.Attendance) error

func (f SinkFunc) Emit(ctx context.Context, event domain.Attendance) error {
	return f(ctx, event)
}
