package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

func (r *AttendanceRepository) CreateAttendance(ctx context.Context, a *domain.Attendance) error {
	query := `
		INSERT INTO attendance_log (id, name, signature_key, marked_at)
		VALUES ($1, $2, $3, $4)
	`

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}

	_, err := r.pool.Exec(ctx, query, a.ID, a.Name, a.SignatureKey, a.Timestamp)
	if err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}

	return nil
}

// ListAttendance returns records marked at or after since, newest first.
func (r *AttendanceRepository) ListAttendance(ctx context.Context, since time.Time, limit int) ([]domain.Attendance, error) {
	query := `
		SELECT id, name, signature_key, marked_at
		FROM attendance_log
		WHERE marked_at >= $1
		ORDER BY marked_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]domain.Attendance, 0)
	for rows.Next() {
		var a domain.Attendance
		if err := rows.Scan(&a.ID, &a.Name, &a.SignatureKey, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance: %w", err)
	}

	return records, nil
}
