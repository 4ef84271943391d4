package llm

import "context"

// RawExtraction is the untrusted shape returned by the extraction service.
// Empty strings mean the field was absent.
type RawExtraction struct {
	CompanyName   string  `json:"companyName"`
	PaymentDate   string  `json:"paymentDate"`   // YYYY-MM-DD expected
	PaymentPeriod string  `json:"paymentPeriod"` // Mon-YY expected
	ReceiptNumber string  `json:"receiptNumber"`
	TaxType       string  `json:"taxType"`
	Amount        float64 `json:"amount"`
	HasAmount     bool    `json:"-"`
}

type ExtractRequest struct {
	Data      []byte
	MediaType string
	Filename  string
}

// Extractor is the interface the pipeline depends on. Failures are *common.AppError
// wrapping common.ErrService or common.ErrSchema.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (RawExtraction, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, req ExtractRequest) (RawExtraction, error)

func (f ExtractorFunc) Extract(ctx context.Context, req ExtractRequest) (RawExtraction, error) {
	return f(ctx, req)
}
