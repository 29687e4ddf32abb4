package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "error without wrapped error",
			appErr:   ErrNoStableSignature,
			expected: "No stable face detected, please hold still",
		},
		{
			name: "error with wrapped error",
			appErr: &AppError{
				Code:       "TEST_ERROR",
				Message:    "Test message",
				StatusCode: 500,
				Err:        errors.New("underlying error"),
			},
			expected: "Test message: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	appErr := &AppError{
		Code:       "TEST",
		Message:    "test",
		StatusCode: 500,
		Err:        underlying,
	}

	if got := appErr.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	if got := ErrInvalidInput.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestAppError_WithError(t *testing.T) {
	underlying := errors.New("connection refused")
	newErr := ErrEnrollmentFailed.WithError(underlying)

	if newErr.Code != ErrEnrollmentFailed.Code {
		t.Errorf("Code = %v, want %v", newErr.Code, ErrEnrollmentFailed.Code)
	}

	if newErr.StatusCode != ErrEnrollmentFailed.StatusCode {
		t.Errorf("StatusCode = %v, want %v", newErr.StatusCode, ErrEnrollmentFailed.StatusCode)
	}

	if !errors.Is(newErr, underlying) {
		t.Errorf("errors.Is should return true for wrapped error")
	}

	if !errors.Is(newErr, ErrEnrollmentFailed) {
		t.Errorf("errors.Is should match the predefined error by code")
	}

	if errors.Is(newErr, ErrStoreUnavailable) {
		t.Errorf("errors.Is should not match a different code")
	}
}

func TestAppError_WithDetail(t *testing.T) {
	base := ErrValidationFailed.WithDetail("field", "name")
	derived := base.WithDetail("reason", "empty")

	if len(ErrValidationFailed.Details) != 0 {
		t.Errorf("predefined error must not be mutated, got %v", ErrValidationFailed.Details)
	}
	if len(base.Details) != 1 {
		t.Errorf("base details = %v, want one entry", base.Details)
	}
	if derived.Details["field"] != "name" || derived.Details["reason"] != "empty" {
		t.Errorf("derived details = %v", derived.Details)
	}
}

func TestAlreadyEnrolled(t *testing.T) {
	err := AlreadyEnrolled("Alice", "0.1000:0.2000:0.1000:0.2000:0.3000:0.4000:0.2000:0.3000")

	if err.Message != "Face already enrolled as Alice" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Details["name"] != "Alice" {
		t.Errorf("Details[name] = %q, want Alice", err.Details["name"])
	}
	if err.StatusCode != 409 {
		t.Errorf("StatusCode = %d, want 409", err.StatusCode)
	}

	wrapped := fmt.Errorf("enroll: %w", err)
	if !errors.Is(wrapped, ErrAlreadyEnrolled) {
		t.Errorf("errors.Is should match ErrAlreadyEnrolled through wrapping")
	}

	if ErrAlreadyEnrolled.Message != "Face already enrolled" {
		t.Errorf("predefined message mutated: %q", ErrAlreadyEnrolled.Message)
	}
}

func TestErrorsAs(t *testing.T) {
	err := fmt.Errorf("load enrollments: %w", ErrStoreUnavailable.WithError(errors.New("timeout")))

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("errors.As should match AppError")
	}

	if appErr.Code != "STORE_UNAVAILABLE" {
		t.Errorf("Code = %v, want STORE_UNAVAILABLE", appErr.Code)
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err        *AppError
		code       string
		statusCode int
	}{
		{ErrInternal, "INTERNAL_ERROR", 500},
		{ErrBadRequest, "BAD_REQUEST", 400},
		{ErrNotFound, "NOT_FOUND", 404},
		{ErrValidationFailed, "VALIDATION_FAILED", 422},
		{ErrRateLimitExceeded, "RATE_LIMIT_EXCEEDED", 429},
		{ErrInvalidInput, "INVALID_INPUT", 422},
		{ErrNoStableSignature, "NO_STABLE_SIGNATURE", 422},
		{ErrAlreadyEnrolled, "ALREADY_ENROLLED", 409},
		{ErrEnrollmentFailed, "ENROLLMENT_FAILED", 503},
		{ErrStoreUnavailable, "STORE_UNAVAILABLE", 503},
		{ErrDetectorUnavailable, "DETECTOR_UNAVAILABLE", 501},
		{ErrInvalidImage, "INVALID_IMAGE", 422},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %v, want %v", tt.err.StatusCode, tt.statusCode)
			}
		})
	}
}
