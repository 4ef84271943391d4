package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
)

func TestParseExtraction(t *testing.T) {
	raw := []byte(`{"companyName":"NASD PLC","paymentDate":"2024-03-10","paymentPeriod":"Feb-24",` +
		`"receiptNumber":"LIRS-0001","taxType":"PAYE","amount":150000}`)

	got, err := ParseExtraction(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, RawExtraction{
		CompanyName:   "NASD PLC",
		PaymentDate:   "2024-03-10",
		PaymentPeriod: "Feb-24",
		ReceiptNumber: "LIRS-0001",
		TaxType:       "PAYE",
		Amount:        150000,
		HasAmount:     true,
	}, got)
}

func TestParseExtraction_MissingFieldsAreEmpty(t *testing.T) {
	got, err := ParseExtraction([]byte(`{"companyName":"NASD PLC"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "NASD PLC", got.CompanyName)
	assert.Empty(t, got.ReceiptNumber)
	assert.False(t, got.HasAmount)
}

func TestParseExtraction_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `no receipt found`},
		{"array", `[1,2,3]`},
		{"object field", `{"companyName":{"name":"NASD"}}`},
		{"array field", `{"taxType":["PAYE","WHT"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtraction([]byte(tt.raw), nil)
			require.Error(t, err)
			assert.Equal(t, common.CodeSchema, common.CodeOf(err))
			assert.ErrorIs(t, err, common.ErrSchema)
		})
	}
}

func TestBuildExtractionSchema(t *testing.T) {
	s := BuildExtractionSchema()
	assert.Equal(t, false, s["additionalProperties"])
	assert.Equal(t, []string{"companyName", "paymentDate", "paymentPeriod", "receiptNumber", "taxType", "amount"}, s["required"])

	props := s["properties"].(map[string]any)
	assert.Len(t, props, 6)
	assert.Equal(t, "number", props["amount"].(map[string]any)["type"])
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildExtractionSchema()
	full := []byte(`{"companyName":"A","paymentDate":"2024-01-01","paymentPeriod":"Dec-23","receiptNumber":"1","taxType":"VAT","amount":1}`)
	assert.NoError(t, ValidateJSONAgainstSchema(schema, full))

	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"companyName":"A"}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"companyName":"A","extra":true}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`not json`)))

	// the response schema only checks types
	assert.NoError(t, ValidateResponse([]byte(`{"companyName":"A"}`)))
	assert.Error(t, ValidateResponse([]byte(`{"amount":"5"}`)))
}

func TestPrompts(t *testing.T) {
	sys := SystemPrompt()
	assert.Contains(t, sys, "Transaction number")
	assert.Contains(t, sys, "Total")
	assert.Contains(t, sys, "Revenue Payment")

	assert.Equal(t, "Filename: r1.pdf\nExtract the remittance fields from the attached receipt.", UserPrompt(" r1.pdf "))
	assert.Equal(t, "Extract the remittance fields from the attached receipt.", UserPrompt(""))
}
