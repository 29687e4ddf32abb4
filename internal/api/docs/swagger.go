package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// BoundingBoxData is the face area in frame coordinates
type BoundingBoxData struct {
	X      float64 `json:"x" example:"120"`
	Y      float64 `json:"y" example:"80"`
	Width  float64 `json:"width" example:"200"`
	Height float64 `json:"height" example:"240"`
}

// OverlayData is one labelled face box
type OverlayData struct {
	BoundingBox BoundingBoxData `json:"bounding_box"`
	Label       string          `json:"label" example:"Alice"`
}

// OverlayResponse is the overlay of the last processed frame
type OverlayResponse struct {
	Overlays []OverlayData `json:"overlays"`
}

// FrameResultResponse is the outcome of processing one frame
type FrameResultResponse struct {
	Overlays []OverlayData `json:"overlays"`
	Name     string        `json:"name,omitempty" example:"Alice"`
	Marked   bool          `json:"marked" example:"true"`
}

// EnrollmentData is one enrolled identity
type EnrollmentData struct {
	SignatureKey string `json:"signature_key" example:"0.5099:0.5099:0.4610:0.4610:0.6000:0.5000:0.9708:0.9708"`
	Name         string `json:"name" example:"Alice"`
	CreatedAt    string `json:"created_at" example:"2025-03-01T09:00:00Z"`
}

// EnrollmentListResponse lists the enrollment table
type EnrollmentListResponse struct {
	Enrollments []EnrollmentData `json:"enrollments"`
	Total       int              `json:"total" example:"2"`
}

// AttendanceData is one attendance record
type AttendanceData struct {
	ID           string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name         string `json:"name" example:"Alice"`
	SignatureKey string `json:"signature_key" example:"0.5099:0.5099:0.4610:0.4610:0.6000:0.5000:0.9708:0.9708"`
	Timestamp    string `json:"timestamp" example:"2025-03-01T09:00:00Z"`
}

// AttendanceListResponse lists attendance records, newest first
type AttendanceListResponse struct {
	Records []AttendanceData `json:"records"`
	Total   int              `json:"total" example:"1"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string            `json:"code" example:"VALIDATION_FAILED"`
	Message string            `json:"message" example:"Request validation failed"`
	Details map[string]string `json:"details,omitempty"`
}

// EmptyResponse represents an accepted request without a body
type EmptyResponse struct{}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger(version string) *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Chamada Attendance API",
		Version:     version,
		Description: "Face-landmark attendance: recognizes enrolled people in detector frames and records debounced attendance",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	internalError := response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")

	endpoints := []*endpoint.EndPoint{
		// POST /v1/frames - Submit detector output
		endpoint.New(
			endpoint.POST,
			"/frames",
			endpoint.WithTags("Frames"),
			endpoint.WithSummary("Submit a detector frame"),
			endpoint.WithDescription("Queues the faces found in one video frame for recognition. Only the newest pending frame is kept. With sync=true the frame is processed inline and the result returned."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("sync", parameter.Query, parameter.WithDescription("Process inline and return the result (true/false, default: false)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "202", "Frame queued"),
				response.New(FrameResultResponse{}, "200", "Frame processed (sync=true)"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				internalError,
			}),
		),

		// POST /v1/frames/image - Detect and process an image
		endpoint.New(
			endpoint.POST,
			"/frames/image",
			endpoint.WithTags("Frames"),
			endpoint.WithSummary("Detect faces in an image and process it"),
			endpoint.WithDescription("Runs the configured landmark detector on the uploaded image (form field \"image\") and processes the result inline"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FrameResultResponse{}, "200", "Frame processed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "DETECTOR_UNAVAILABLE", Message: "No face detector is configured"}, "501", "Not Implemented"),
				response.New(ErrorResponse{Code: "DETECTION_FAILED", Message: "Face detection failed"}, "502", "Bad Gateway"),
			}),
		),

		// GET /v1/overlay - Current overlay
		endpoint.New(
			endpoint.GET,
			"/overlay",
			endpoint.WithTags("Frames"),
			endpoint.WithSummary("Get the current overlay"),
			endpoint.WithDescription("Returns the face box and label of the last processed frame. Empty when no face was in view."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(OverlayResponse{}, "200", "Current overlay"),
			}),
		),

		// POST /v1/enrollments - Enroll the current face
		endpoint.New(
			endpoint.POST,
			"/enrollments",
			endpoint.WithTags("Enrollments"),
			endpoint.WithSummary("Enroll the face currently in view"),
			endpoint.WithDescription("Pairs the JSON body {\"name\": \"...\"} with the most recently observed signature. Rejected when a similar face is already enrolled."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnrollmentData{}, "201", "Face enrolled"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "ALREADY_ENROLLED", Message: "Face already enrolled as Alice"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INVALID_INPUT", Message: "Please enter a name"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "NO_STABLE_SIGNATURE", Message: "No stable face detected, please hold still"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "ENROLLMENT_FAILED", Message: "Could not enroll"}, "503", "Service Unavailable"),
			}),
		),

		// GET /v1/enrollments - List enrollments
		endpoint.New(
			endpoint.GET,
			"/enrollments",
			endpoint.WithTags("Enrollments"),
			endpoint.WithSummary("List enrolled identities"),
			endpoint.WithDescription("Returns the in-memory enrollment table ordered by name"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnrollmentListResponse{}, "200", "Enrollment table"),
			}),
		),

		// GET /v1/attendance - Attendance log
		endpoint.New(
			endpoint.GET,
			"/attendance",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("List attendance records"),
			endpoint.WithDescription("Reads back the append-only attendance log, newest first"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("since", parameter.Query, parameter.WithDescription("Only records at or after this RFC3339 timestamp")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum number of records (default: 100, max: 1000)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AttendanceListResponse{}, "200", "Attendance records"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "Attendance store unreachable"}, "503", "Service Unavailable"),
			}),
		),

		// GET /v1/ws - Event stream
		endpoint.New(
			endpoint.GET,
			"/ws",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("Subscribe to overlay and attendance events"),
			endpoint.WithDescription("WebSocket stream of overlay.updated, attendance.marked and enrollment.created events"),
			endpoint.WithParams(
				parameter.StrParam("events", parameter.Query, parameter.WithDescription("Comma-separated event types to receive (default: all)")),
			),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "HTTP_ERROR", Message: "Upgrade Required"}, "426", "Upgrade Required"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
