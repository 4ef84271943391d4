package common

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError and surfaced in diagnostics.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeService            = "SERVICE_ERROR"
	CodeSchema             = "SCHEMA_ERROR"
	CodeInvalidExtraction  = "INVALID_EXTRACTION"
	CodeDuplicateReceipt   = "DUPLICATE_RECEIPT"
	CodeExportPrecondition = "EXPORT_PRECONDITION"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeConfig             = "CONFIG_ERROR"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrValidation         = errors.New("validation failed")
	ErrService            = errors.New("extraction service failed")
	ErrSchema             = errors.New("extraction response does not match schema")
	ErrInvalidExtraction  = errors.New("invalid extraction")
	ErrDuplicateReceipt   = errors.New("duplicate receipt")
	ErrExportPrecondition = errors.New("export precondition failed")
	ErrServiceUnavailable = errors.New("extraction service unavailable")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func ValidationErrorf(format string, args ...any) error {
	return NewAppError(CodeValidation, fmt.Sprintf(format, args...), ErrValidation)
}

// ServiceError wraps a transport, timeout or quota failure from the extraction service.
func ServiceError(message string, cause error) error {
	return NewAppError(CodeService, message, withSentinel(ErrService, cause))
}

// SchemaError wraps a response that could not be read into the extraction field set.
func SchemaError(message string, cause error) error {
	return NewAppError(CodeSchema, message, withSentinel(ErrSchema, cause))
}

func InvalidExtractionError(message string) error {
	return NewAppError(CodeInvalidExtraction, message, ErrInvalidExtraction)
}

func DuplicateReceiptError(key string) error {
	return NewAppError(CodeDuplicateReceipt, "receipt already in ledger: "+key, ErrDuplicateReceipt)
}

func ExportPreconditionErrorf(format string, args ...any) error {
	return NewAppError(CodeExportPrecondition, fmt.Sprintf(format, args...), ErrExportPrecondition)
}

func ServiceUnavailableError(message string) error {
	return NewAppError(CodeServiceUnavailable, message, ErrServiceUnavailable)
}

func withSentinel(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// CodeOf returns the AppError code found in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
