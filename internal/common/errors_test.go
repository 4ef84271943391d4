package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Classification(t *testing.T) {
	cause := errors.New("connection reset")
	tests := []struct {
		name     string
		err      error
		code     string
		sentinel error
	}{
		{"validation", ValidationErrorf("document is %d bytes", 42), CodeValidation, ErrValidation},
		{"service", ServiceError("call failed", cause), CodeService, ErrService},
		{"schema", SchemaError("bad json", cause), CodeSchema, ErrSchema},
		{"invalid extraction", InvalidExtractionError("missing receipt number"), CodeInvalidExtraction, ErrInvalidExtraction},
		{"duplicate", DuplicateReceiptError("R1-5000"), CodeDuplicateReceipt, ErrDuplicateReceipt},
		{"export", ExportPreconditionErrorf("ledger is empty"), CodeExportPrecondition, ErrExportPrecondition},
		{"unavailable", ServiceUnavailableError("no client"), CodeServiceUnavailable, ErrServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.err))
			assert.ErrorIs(t, tt.err, tt.sentinel)

			wrapped := fmt.Errorf("doc a.pdf: %w", tt.err)
			assert.Equal(t, tt.code, CodeOf(wrapped))
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}
}

func TestServiceError_KeepsCause(t *testing.T) {
	cause := errors.New("429 quota exceeded")
	err := ServiceError("extract", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "SERVICE_ERROR")
	assert.Contains(t, err.Error(), "429 quota exceeded")
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Empty(t, CodeOf(errors.New("plain")))
	assert.Empty(t, CodeOf(nil))
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))
	err := WrapError(ErrSchema, "decode")
	assert.EqualError(t, err, "decode: "+ErrSchema.Error())
	assert.ErrorIs(t, err, ErrSchema)
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("companyName", "  ", Required).
		Field("paymentDate", "2024-13-01", Required, ISODate).
		Field("receiptNumber", "R-1", Required, MaxLength(2))

	assert.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 3)

	err := v.Err(CodeInvalidExtraction, ErrInvalidExtraction)
	assert.Equal(t, CodeInvalidExtraction, CodeOf(err))
	assert.ErrorIs(t, err, ErrInvalidExtraction)
	assert.Contains(t, err.Error(), "companyName")
	assert.Contains(t, err.Error(), "YYYY-MM-DD")

	ok := NewValidator().Field("paymentDate", "2024-02-29", Required, ISODate)
	assert.False(t, ok.HasErrors())
	assert.NoError(t, ok.Err(CodeValidation, ErrValidation))
	assert.Empty(t, ok.ErrorMessage())
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ValidationErrorf("bad")))
	assert.False(t, IsValidation(ServiceError("x", errors.New("y"))))
}

func TestSchemaError_NilCause(t *testing.T) {
	err := SchemaError("no choices", nil)
	assert.ErrorIs(t, err, ErrSchema)
	assert.Equal(t, "SCHEMA_ERROR: no choices: "+ErrSchema.Error(), err.Error())
}
