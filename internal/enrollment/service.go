// Package enrollment owns the enrollment table and the deduplicating
// enrollment flow that grows it.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/signature"
)

// Store is the external record store holding the enrollment collection.
type Store interface {
	CreateEnrollment(ctx context.Context, e *domain.Enrollment) error
	ListEnrollments(ctx context.Context) ([]domain.Enrollment, error)
}

// Service is the enrollment deduplicator.
type Service struct {
	table   *Table
	store   Store
	matcher *signature.Matcher
	logger  *slog.Logger

	// enrollMu serializes check-persist-insert so two requests can never both
	// pass the duplicate check with signatures close to each other.
	enrollMu sync.Mutex
}

// NewService creates a Service over table, persisting through store.
func NewService(table *Table, store Store, matcher *signature.Matcher, logger *slog.Logger) *Service {
	return &Service{
		table:   table,
		store:   store,
		matcher: matcher,
		logger:  logger,
	}
}

// Seed performs the single bulk read of the enrollment collection at startup.
func (s *Service) Seed(ctx context.Context) (int, error) {
	enrollments, err := s.store.ListEnrollments(ctx)
	if err != nil {
		return 0, domain.ErrStoreUnavailable.WithError(fmt.Errorf("load enrollments: %w", err))
	}

	size := s.table.Load(enrollments)
	s.logger.Info("enrollments loaded", "count", size)
	return size, nil
}

// Recognize looks the candidate up in the enrollment table.
func (s *Service) Recognize(candidate domain.Signature) (signature.Match, bool) {
	return s.table.Find(s.matcher, candidate)
}

// Enroll registers candidate under name unless an enrolled signature is
// already within the similarity threshold. The table is only updated after the
// store confirms the write.
func (s *Service) Enroll(ctx context.Context, candidate *domain.Signature, name string) (*domain.Enrollment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if candidate == nil {
		return nil, domain.ErrNoStableSignature
	}

	// Check the value that will be stored, not the unrounded one.
	sig := candidate.Canonical()

	s.enrollMu.Lock()
	defer s.enrollMu.Unlock()

	if match, ok := s.table.Find(s.matcher, sig); ok {
		s.logger.Info("enrollment rejected, face already enrolled",
			"name", name,
			"existing_name", match.Name,
			"distance", match.Distance,
		)
		return nil, domain.AlreadyEnrolled(match.Name, match.Key)
	}

	enrollment := &domain.Enrollment{
		SignatureKey: sig.String(),
		Name:         name,
	}

	if err := s.store.CreateEnrollment(ctx, enrollment); err != nil {
		if errors.Is(err, domain.ErrAlreadyEnrolled) {
			return nil, err
		}
		s.logger.Error("enrollment write failed", "name", name, "error", err)
		return nil, domain.ErrEnrollmentFailed.WithError(err)
	}

	s.table.Insert(enrollment.SignatureKey, enrollment.Name)
	s.logger.Info("face enrolled", "name", name, "signature_key", enrollment.SignatureKey)

	return enrollment, nil
}

// Enrollments lists the in-memory table.
func (s *Service) Enrollments() []domain.Enrollment {
	return s.table.Entries()
}
