package llm

import (
	"encoding/json"
	"log/slog"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
)

type extractionWire struct {
	CompanyName   *string  `json:"companyName"`
	PaymentDate   *string  `json:"paymentDate"`
	PaymentPeriod *string  `json:"paymentPeriod"`
	ReceiptNumber *string  `json:"receiptNumber"`
	TaxType       *string  `json:"taxType"`
	Amount        *float64 `json:"amount"`
}

// ParseExtraction turns a service response body into a RawExtraction.
// Anything that cannot be read into the field set is a SCHEMA_ERROR.
func ParseExtraction(raw []byte, logger *slog.Logger) (RawExtraction, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cleaned, _, err := SanitizeExtractionJSON(raw, logger)
	if err != nil {
		return RawExtraction{}, common.SchemaError("unreadable extraction response", err)
	}
	if err := ValidateResponse(cleaned); err != nil {
		logger.Error("llm.extract.schema_validation_failed", "error", err, "content", string(cleaned))
		return RawExtraction{}, common.SchemaError("extraction response failed validation", err)
	}

	var w extractionWire
	if err := json.Unmarshal(cleaned, &w); err != nil {
		return RawExtraction{}, common.SchemaError("unmarshal extraction fields", err)
	}

	out := RawExtraction{
		CompanyName:   deref(w.CompanyName),
		PaymentDate:   deref(w.PaymentDate),
		PaymentPeriod: deref(w.PaymentPeriod),
		ReceiptNumber: deref(w.ReceiptNumber),
		TaxType:       deref(w.TaxType),
	}
	if w.Amount != nil {
		out.Amount = *w.Amount
		out.HasAmount = true
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
