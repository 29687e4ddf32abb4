package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/chamada/internal/detector/rekognition"
	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/pipeline"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// FramePipeline is the recognition pipeline as seen by the frame endpoints
type FramePipeline interface {
	Submit(frame pipeline.Frame)
	Process(ctx context.Context, frame pipeline.Frame) pipeline.Result
	Latest() []domain.Overlay
}

// FaceDetector turns an image into detector output
type FaceDetector interface {
	Detect(ctx context.Context, image []byte) ([]domain.Face, error)
}

// FrameHandler accepts detector output and serves the current overlay
type FrameHandler struct {
	pipeline FramePipeline
	detector FaceDetector
	logger   *slog.Logger
}

// NewFrameHandler creates a FrameHandler. detector may be nil, in which case
// image uploads are rejected.
func NewFrameHandler(p FramePipeline, detector FaceDetector, logger *slog.Logger) *FrameHandler {
	return &FrameHandler{
		pipeline: p,
		detector: detector,
		logger:   logger,
	}
}

type OverlayResponse struct {
	Overlays []domain.Overlay `json:"overlays"`
}

// Submit POST /v1/frames - queue detector output for the recognition worker.
// With ?sync=true the frame is processed inline and the result returned.
func (h *FrameHandler) Submit(c *fiber.Ctx) error {
	var frame pipeline.Frame
	if err := c.BodyParser(&frame); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if frame.ReceivedAt.IsZero() {
		frame.ReceivedAt = time.Now()
	}

	if c.QueryBool("sync") {
		return c.JSON(h.pipeline.Process(c.UserContext(), frame))
	}

	h.pipeline.Submit(frame)
	return c.SendStatus(fiber.StatusAccepted)
}

// SubmitImage POST /v1/frames/image - run the configured detector on an
// uploaded image and process the result inline
func (h *FrameHandler) SubmitImage(c *fiber.Ctx) error {
	if h.detector == nil {
		return domain.ErrDetectorUnavailable
	}

	image, err := readImage(c)
	if err != nil {
		return err
	}

	faces, err := h.detector.Detect(c.UserContext(), image)
	if err != nil {
		if errors.Is(err, rekognition.ErrInvalidImage) {
			return domain.ErrInvalidImage.WithError(err)
		}
		return domain.ErrDetectionFailed.WithError(err)
	}

	result := h.pipeline.Process(c.UserContext(), pipeline.Frame{
		Faces:      faces,
		ReceivedAt: time.Now(),
	})
	return c.JSON(result)
}

// Overlay GET /v1/overlay - overlay of the last processed frame
func (h *FrameHandler) Overlay(c *fiber.Ctx) error {
	return c.JSON(OverlayResponse{Overlays: h.pipeline.Latest()})
}

// readImage extracts and validates the "image" form file
func readImage(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithDetail("field", "image").WithError(err)
	}

	if file.Size == 0 || file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage.WithDetail("size", "image must be between 1 byte and 10MB")
	}

	if !validImageTypes[file.Header.Get("Content-Type")] {
		return nil, domain.ErrInvalidImage.WithDetail("content_type", file.Header.Get("Content-Type"))
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	return data, nil
}
