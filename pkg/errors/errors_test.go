package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"contactnorm/pkg/normalizer"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("mongo: no reachable servers")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("mongo: no reachable servers"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: mongo: no reachable servers)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestAppError_StatusCode(t *testing.T) {
	err := New(CodeNotFound, "not found", http.StatusNotFound)
	if err.StatusCode() != http.StatusNotFound {
		t.Errorf("StatusCode() = %d, want %d", err.StatusCode(), http.StatusNotFound)
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)
	details := map[string]any{
		"field": "phone",
		"error": "invalid format",
	}

	err = err.WithDetails(details)

	if err.Details["field"] != "phone" {
		t.Errorf("expected field 'phone', got %v", err.Details["field"])
	}
	if err.Details["error"] != "invalid format" {
		t.Errorf("expected error 'invalid format', got %v", err.Details["error"])
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("Route")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Message != "Route not found" {
		t.Errorf("expected message 'Route not found', got %s", err.Message)
	}
}

func TestValidation(t *testing.T) {
	details := map[string]any{"field": "dob"}
	err := Validation("validation failed", details)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
	if err.Details["field"] != "dob" {
		t.Errorf("expected field 'dob', got %v", err.Details["field"])
	}
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("invalid request")

	if err.Code != CodeInvalidInput {
		t.Errorf("expected code %s, got %s", CodeInvalidInput, err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestInternal(t *testing.T) {
	originalErr := errors.New("mongo: no reachable servers")
	err := Internal("internal error occurred", originalErr)

	if err.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, err.Code)
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, err.HTTPStatus)
	}
	if err.Err != originalErr {
		t.Errorf("expected wrapped error to be originalErr")
	}
}

func TestTimeout(t *testing.T) {
	err := Timeout("request timed out")

	if err.Code != CodeTimeout {
		t.Errorf("expected code %s, got %s", CodeTimeout, err.Code)
	}
	if err.HTTPStatus != http.StatusGatewayTimeout {
		t.Errorf("expected status %d, got %d", http.StatusGatewayTimeout, err.HTTPStatus)
	}
}

func TestUnavailable(t *testing.T) {
	err := Unavailable("MongoDB")

	if err.Code != CodeUnavailable {
		t.Errorf("expected code %s, got %s", CodeUnavailable, err.Code)
	}
	if err.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, err.HTTPStatus)
	}
	if err.Message != "MongoDB is temporarily unavailable" {
		t.Errorf("expected message to contain service name, got %s", err.Message)
	}
}

func TestIsAppError(t *testing.T) {
	appErr := NotFound("Route")
	regularErr := errors.New("regular error")

	if !IsAppError(appErr) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if IsAppError(regularErr) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Route")
	regularErr := errors.New("regular error")

	result := AsAppError(appErr)
	if result != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	result = AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := NotFound("Route")
	json := err.ToJSON()

	if len(json) == 0 {
		t.Errorf("ToJSON() should return non-empty JSON")
	}

	// Basic check that it contains expected fields
	jsonStr := string(json)
	if !strings.Contains(jsonStr, "NOT_FOUND") {
		t.Errorf("ToJSON() should contain error code")
	}
	if !strings.Contains(jsonStr, "not found") {
		t.Errorf("ToJSON() should contain error message")
	}
}

func TestNormalization(t *testing.T) {
	phones := normalizer.NewPhoneNormalizer(normalizer.LibPhoneNumberPlan{}, normalizer.DefaultRegion, normalizer.DefaultMobilePrefix)
	dobs := normalizer.NewDateNormalizer(normalizer.FuzzyDateParser{}, normalizer.DefaultPivotRule())

	_, phoneErr := phones.Normalize("abc")
	_, dobErr := dobs.Normalize("31/02/2020")

	tests := []struct {
		name       string
		field      string
		err        error
		wantReason string
		wantRaw    any
		wantKind   error
	}{
		{
			name:       "unparseable phone",
			field:      "phone",
			err:        phoneErr,
			wantReason: "invalid phone: abc -> ",
			wantRaw:    "abc",
			wantKind:   normalizer.ErrUnparseablePhone,
		},
		{
			name:       "impossible calendar date",
			field:      "dob",
			err:        dobErr,
			wantReason: "invalid date components y=2020 m=2 d=31",
			wantKind:   normalizer.ErrInvalidCalendarDate,
		},
		{
			name:       "plain error has no raw detail",
			field:      "dob",
			err:        errors.New("parser crashed"),
			wantReason: "parser crashed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Normalization(tt.field, tt.err)

			if err.Code != CodeValidation {
				t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
			}
			if err.HTTPStatus != http.StatusUnprocessableEntity {
				t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
			}
			if err.Message != tt.field+" could not be normalized" {
				t.Errorf("unexpected message %q", err.Message)
			}
			if err.Details["field"] != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, err.Details["field"])
			}
			if err.Details["reason"] != tt.wantReason {
				t.Errorf("expected reason %q, got %v", tt.wantReason, err.Details["reason"])
			}
			raw, hasRaw := err.Details["raw"]
			if tt.wantRaw != nil && raw != tt.wantRaw {
				t.Errorf("expected raw %v, got %v", tt.wantRaw, raw)
			}
			if tt.wantKind == nil && hasRaw {
				t.Errorf("expected no raw detail, got %v", raw)
			}
			if tt.wantKind != nil && !errors.Is(err, tt.wantKind) {
				t.Errorf("Normalization() should keep %v in the chain", tt.wantKind)
			}
		})
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	appErr := InvalidInput("bad body")
	wrapped := fmt.Errorf("decode: %w", appErr)

	if !IsAppError(wrapped) {
		t.Errorf("IsAppError() should see through wrapping")
	}
	if AsAppError(wrapped) != appErr {
		t.Errorf("AsAppError() should return the wrapped AppError")
	}
}
