package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdentityKey(t *testing.T) {
	assert.Equal(t, "R-1-5000", IdentityKey(" R-1 ", 5000))
	assert.Equal(t, "R-1-5000.5", IdentityKey("R-1", 5000.50))
	assert.Equal(t, "R-1-0", IdentityKey("R-1", 0))
	assert.Equal(t, "LIRS/9-1234567.89", Record{ReceiptNumber: "LIRS/9", Amount: 1234567.89}.IdentityKey())
}

func TestRecordDate(t *testing.T) {
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), Record{PaymentDate: "2024-02-29"}.Date())
	assert.True(t, Record{PaymentDate: "garbage"}.Date().IsZero())
}

func TestCompareByDate(t *testing.T) {
	a := Record{PaymentDate: "2024-01-01"}
	b := Record{PaymentDate: "2024-02-01"}
	assert.Negative(t, CompareByDate(a, b))
	assert.Positive(t, CompareByDate(b, a))
	assert.Zero(t, CompareByDate(a, a))
}
