package domain

import (
	"fmt"
)

type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	StatusCode int               `json:"-"`
	Err        error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so derived errors built with
// WithError or WithDetail still satisfy errors.Is against the predefined value.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		Details:    e.Details,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

func (e *AppError) WithDetail(key, value string) *AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value

	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		Details:    details,
		StatusCode: e.StatusCode,
		Err:        e.Err,
	}
}

// AlreadyEnrolled builds the rejection returned when a candidate signature is
// within the similarity threshold of an existing enrollment.
func AlreadyEnrolled(existingName, existingKey string) *AppError {
	err := ErrAlreadyEnrolled.
		WithDetail("name", existingName).
		WithDetail("signature_key", existingKey)
	err.Message = fmt.Sprintf("Face already enrolled as %s", existingName)
	return err
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}

	// Enrollment errors
	ErrInvalidInput = &AppError{
		Code:       "INVALID_INPUT",
		Message:    "Please enter a name",
		StatusCode: 422,
	}

	ErrNoStableSignature = &AppError{
		Code:       "NO_STABLE_SIGNATURE",
		Message:    "No stable face detected, please hold still",
		StatusCode: 422,
	}

	ErrAlreadyEnrolled = &AppError{
		Code:       "ALREADY_ENROLLED",
		Message:    "Face already enrolled",
		StatusCode: 409,
	}

	ErrEnrollmentFailed = &AppError{
		Code:       "ENROLLMENT_FAILED",
		Message:    "Could not enroll",
		StatusCode: 503,
	}

	// Store errors
	ErrStoreUnavailable = &AppError{
		Code:       "STORE_UNAVAILABLE",
		Message:    "Attendance store unreachable",
		StatusCode: 503,
	}

	// Detector errors
	ErrDetectorUnavailable = &AppError{
		Code:       "DETECTOR_UNAVAILABLE",
		Message:    "No face detector is configured",
		StatusCode: 501,
	}

	ErrDetectionFailed = &AppError{
		Code:       "DETECTION_FAILED",
		Message:    "Face detection failed",
		StatusCode: 502,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}
)
