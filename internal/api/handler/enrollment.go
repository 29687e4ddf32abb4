package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/chamada/internal/audit"
	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// EnrollmentService registers and lists identities
type EnrollmentService interface {
	Enroll(ctx context.Context, candidate *domain.Signature, name string) (*domain.Enrollment, error)
	Enrollments() []domain.Enrollment
}

// SignatureSource supplies the most recently observed signature
type SignatureSource interface {
	LastSignature() *domain.Signature
}

// EnrollmentPublisher is notified of every successful enrollment
type EnrollmentPublisher interface {
	PublishEnrollment(enrollment domain.Enrollment)
}

// EnrollmentHandler handles enrollment requests
type EnrollmentHandler struct {
	service   EnrollmentService
	source    SignatureSource
	publisher EnrollmentPublisher
	audit     audit.Logger
	logger    *slog.Logger
}

// NewEnrollmentHandler creates an EnrollmentHandler. publisher and auditLogger
// may be nil.
func NewEnrollmentHandler(service EnrollmentService, source SignatureSource, publisher EnrollmentPublisher, auditLogger audit.Logger, logger *slog.Logger) *EnrollmentHandler {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return &EnrollmentHandler{
		service:   service,
		source:    source,
		publisher: publisher,
		audit:     auditLogger,
		logger:    logger,
	}
}

type EnrollRequest struct {
	Name string `json:"name"`
}

type EnrollmentListResponse struct {
	Enrollments []domain.Enrollment `json:"enrollments"`
	Total       int                 `json:"total"`
}

// Enroll POST /v1/enrollments - enroll the face currently in front of the camera
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	enrollment, err := h.service.Enroll(c.UserContext(), h.source.LastSignature(), req.Name)
	h.record(c, req.Name, enrollment, err)
	if err != nil {
		return err
	}

	if h.publisher != nil {
		h.publisher.PublishEnrollment(*enrollment)
	}

	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

// List GET /v1/enrollments - enrolled identities
func (h *EnrollmentHandler) List(c *fiber.Ctx) error {
	enrollments := h.service.Enrollments()
	if enrollments == nil {
		enrollments = []domain.Enrollment{}
	}

	return c.JSON(EnrollmentListResponse{
		Enrollments: enrollments,
		Total:       len(enrollments),
	})
}

// record writes the audit trail entry for an enrollment attempt
func (h *EnrollmentHandler) record(c *fiber.Ctx, name string, enrollment *domain.Enrollment, err error) {
	event := audit.Event{
		EventType: audit.EventEnrollmentCreated,
		Name:      name,
		Success:   err == nil,
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}

	if enrollment != nil {
		event.SignatureKey = enrollment.SignatureKey
	}

	if err != nil {
		event.EventType = audit.EventEnrollmentRejected
		event.Error = err.Error()

		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			event.Error = appErr.Code
			event.Metadata = appErr.Details
		}
	}

	if logErr := h.audit.Log(c.UserContext(), event); logErr != nil {
		h.logger.Warn("failed to write audit event", "error", logErr)
	}
}
