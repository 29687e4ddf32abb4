package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// enrollmentLockKey serializes enrollment inserts across processes sharing
// the database.
const enrollmentLockKey int64 = 0x63686d64

type EnrollmentRepository struct {
	pool      PgxPool
	threshold float64
}

func NewEnrollmentRepository(pool PgxPool, threshold float64) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool, threshold: threshold}
}

// CreateEnrollment inserts the enrollment unless a stored embedding lies
// within the threshold (L1), checked under a transaction-scoped advisory lock.
func (r *EnrollmentRepository) CreateEnrollment(ctx context.Context, e *domain.Enrollment) error {
	sig, err := domain.ParseSignature(e.SignatureKey)
	if err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	embedding := pgvector.NewVector(sig.Slice())

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin enrollment: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, enrollmentLockKey); err != nil {
		return fmt.Errorf("lock enrollments: %w", err)
	}

	// Embeddings are float32; rounding back to the key precision keeps the
	// threshold exclusive for keys exactly 0.25 apart.
	checkQuery := `
		SELECT signature_key, name
		FROM enrolled_faces
		WHERE round((embedding <+> $1)::numeric, 4) < round($2::numeric, 4)
		ORDER BY embedding <+> $1, signature_key
		LIMIT 1
	`

	var existingKey, existingName string
	err = tx.QueryRow(ctx, checkQuery, embedding, r.threshold).Scan(&existingKey, &existingName)
	switch {
	case err == nil:
		return domain.AlreadyEnrolled(existingName, existingKey)
	case !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("check enrollment: %w", err)
	}

	insertQuery := `
		INSERT INTO enrolled_faces (signature_key, name, embedding, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`

	err = tx.QueryRow(ctx, insertQuery, e.SignatureKey, e.Name, embedding).Scan(&e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyEnrolled.WithDetail("signature_key", e.SignatureKey)
		}
		return fmt.Errorf("create enrollment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit enrollment: %w", err)
	}

	return nil
}

// ListEnrollments is the bulk read that seeds the in-memory table.
func (r *EnrollmentRepository) ListEnrollments(ctx context.Context) ([]domain.Enrollment, error) {
	query := `
		SELECT signature_key, COALESCE(name, ''), created_at
		FROM enrolled_faces
		ORDER BY created_at, signature_key
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.SignatureKey, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}

	return enrollments, nil
}
