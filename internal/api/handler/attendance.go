package handler

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// AttendanceLister reads back the attendance log
type AttendanceLister interface {
	List(ctx context.Context, since time.Time, limit int) ([]domain.Attendance, error)
}

// AttendanceHandler serves the attendance log
type AttendanceHandler struct {
	lister AttendanceLister
	logger *slog.Logger
}

func NewAttendanceHandler(lister AttendanceLister, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		lister: lister,
		logger: logger,
	}
}

type AttendanceListResponse struct {
	Records []domain.Attendance `json:"records"`
	Total   int                 `json:"total"`
}

// List GET /v1/attendance?since=RFC3339&limit=N - newest records first
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	var since time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return domain.ErrBadRequest.WithDetail("since", "must be an RFC3339 timestamp").WithError(err)
		}
		since = parsed
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return domain.ErrBadRequest.WithDetail("limit", "must be a non-negative integer")
		}
		limit = parsed
	}

	records, err := h.lister.List(c.UserContext(), since, limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.Attendance{}
	}

	return c.JSON(AttendanceListResponse{
		Records: records,
		Total:   len(records),
	})
}
