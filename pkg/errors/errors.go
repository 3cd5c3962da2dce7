package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"contactnorm/pkg/normalizer"
)

const (
	CodeNotFound             = "NOT_FOUND"
	CodeValidation           = "VALIDATION_ERROR"
	CodeInternal             = "INTERNAL_ERROR"
	CodeBadRequest           = "BAD_REQUEST"
	CodeTimeout              = "TIMEOUT"
	CodeUnavailable          = "SERVICE_UNAVAILABLE"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeRequestTooLarge      = "REQUEST_TOO_LARGE"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) ToJSON() []byte {
	response := ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
	data, _ := json.Marshal(response)
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

// Normalization reports a field that could not be normalized. The reason is
// the one produced by the normalizer, unchanged.
func Normalization(field string, err error) *AppError {
	details := map[string]any{
		"field":  field,
		"reason": normalizer.Reason(err),
	}
	var nerr *normalizer.Error
	if stderrors.As(err, &nerr) {
		details["raw"] = nerr.Raw
	}
	return &AppError{
		Code:       CodeValidation,
		Message:    fmt.Sprintf("%s could not be normalized", field),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
		Err:        err,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func RequestTooLarge(limit int) *AppError {
	return &AppError{
		Code:       CodeRequestTooLarge,
		Message:    fmt.Sprintf("request body exceeds %d bytes", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

func UnsupportedMediaType(contentType string) *AppError {
	return &AppError{
		Code:       CodeUnsupportedMediaType,
		Message:    fmt.Sprintf("unsupported content type %q, expected application/json", contentType),
		HTTPStatus: http.StatusUnsupportedMediaType,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}
