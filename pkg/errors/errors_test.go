package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusBadRequest)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("mongo insert failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if !errors.Is(wrapped, originalErr) {
		t.Errorf("errors.Is should see through AppError")
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "Booking not found"},
			expected: "NOT_FOUND: Booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "Failed to save booking",
				Err:     errors.New("connection refused"),
			},
			expected: "INTERNAL_ERROR: Failed to save booking (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	err := Validation("Validation failed", []string{"Service type is required", "Preferred time is required"})

	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
	details, ok := err.Details.([]string)
	if !ok {
		t.Fatalf("expected []string details, got %T", err.Details)
	}
	if len(details) != 2 || details[0] != "Service type is required" {
		t.Errorf("details order not preserved: %v", details)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("invalid status"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("missing session"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("admin role required"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("duplicate"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Email provider"), CodeUnavailable, http.StatusServiceUnavailable},
		{"rate limited", RateLimited("Too many booking requests. Please try again later."), CodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestDispatchFailed(t *testing.T) {
	providerErr := errors.New("The from address domain is not verified")
	err := DispatchFailed(providerErr, "Failed to send booking emails")

	if err.Message != providerErr.Error() {
		t.Errorf("expected transport message, got %q", err.Message)
	}
	if err.Details != "Failed to send booking emails" {
		t.Errorf("unexpected details %v", err.Details)
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.HTTPStatus)
	}

	if got := DispatchFailed(nil, "x").Message; got != "Failed to send email" {
		t.Errorf("expected fallback message, got %q", got)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Booking")
	regularErr := errors.New("regular error")

	if result := AsAppError(appErr); result != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("service layer: %w", appErr)
	if result := AsAppError(wrapped); result != appErr {
		t.Errorf("AsAppError() should unwrap to the AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestIsAppErrorAndHasCode(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", RateLimited("slow down"))

	if !IsAppError(wrapped) {
		t.Errorf("IsAppError() should return true for wrapped AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Errorf("IsAppError() should return false for regular error")
	}
	if !HasCode(wrapped, CodeRateLimited) {
		t.Errorf("HasCode() should match RATE_LIMITED")
	}
	if HasCode(wrapped, CodeNotFound) {
		t.Errorf("HasCode() should not match NOT_FOUND")
	}
}
