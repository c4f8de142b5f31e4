package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeImageLoad  ErrorType = "image_load"
	ErrorTypeOCRInit    ErrorType = "ocr_initialization"
	ErrorTypeProcessing ErrorType = "processing"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewImageLoadError creates an error for an image URL that could not be
// fetched or decoded. Not retried by the pipeline.
func NewImageLoadError(imageURL string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeImageLoad,
		Message:    fmt.Sprintf("failed to load image %q", imageURL),
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewOCRInitError creates an error for a failed OCR engine startup
func NewOCRInitError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeOCRInit,
		Message:    "failed to initialize OCR engine",
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// NewProcessingError creates a new processing error
func NewProcessingError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProcessing,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// AnalysisFailure wraps any error raised while analyzing a single screenshot,
// tagged with its position in the batch. The single-screenshot operation does
// not partially succeed.
type AnalysisFailure struct {
	ScreenshotIndex int
	Cause           error
}

// Error implements the error interface
func (e *AnalysisFailure) Error() string {
	return fmt.Sprintf("analysis failed for screenshot %d: %v", e.ScreenshotIndex, e.Cause)
}

// Unwrap returns the underlying error
func (e *AnalysisFailure) Unwrap() error {
	return e.Cause
}

// NewAnalysisFailure wraps err with the screenshot index
func NewAnalysisFailure(index int, err error) *AnalysisFailure {
	return &AnalysisFailure{ScreenshotIndex: index, Cause: err}
}

// IsType checks if the error, anywhere in its chain, is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error chain
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
