package normalize

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/entity"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/llm"
)

// Normalizer turns untrusted extractions into ledger records.
type Normalizer struct {
	logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize uses the default logger.
func Normalize(raw llm.RawExtraction) (entity.Record, error) {
	return NewNormalizer(nil).Normalize(raw)
}

// Normalize fills derived fields and rejects extractions missing the company,
// the receipt number or a readable payment date with INVALID_EXTRACTION.
func (n *Normalizer) Normalize(raw llm.RawExtraction) (entity.Record, error) {
	company := strings.TrimSpace(raw.CompanyName)
	receipt := strings.TrimSpace(raw.ReceiptNumber)
	dateStr := strings.TrimSpace(raw.PaymentDate)

	v := common.NewValidator().
		Field("companyName", company, common.Required).
		Field("receiptNumber", receipt, common.Required).
		Field("paymentDate", dateStr, common.Required)
	if err := v.Err(common.CodeInvalidExtraction, common.ErrInvalidExtraction); err != nil {
		return entity.Record{}, err
	}

	date, err := ParseDate(dateStr)
	if err != nil {
		return entity.Record{}, common.InvalidExtractionError(fmt.Sprintf("unreadable paymentDate %q", dateStr))
	}

	period := strings.TrimSpace(raw.PaymentPeriod)
	switch {
	case period == "":
		period = PrecedingPeriod(date)
		n.logger.Debug("normalize.period.derived", "receipt", receipt, "date", dateStr, "period", period)
	default:
		if canon, ok := CanonicalPeriod(period); ok {
			period = canon
		} else {
			n.logger.Warn("normalize.period.unrecognized", "receipt", receipt, "period", period)
		}
	}

	amount := 0.0
	if raw.HasAmount {
		amount = raw.Amount
		if amount < 0 {
			n.logger.Warn("normalize.amount.negative", "receipt", receipt, "amount", amount)
			amount = math.Abs(amount)
		}
	}

	return entity.Record{
		CompanyName:        company,
		PaymentDate:        date.Format(time.DateOnly),
		PaymentDateDisplay: date.Format(entity.DisplayDateLayout),
		PaymentPeriod:      period,
		ReceiptNumber:      receipt,
		TaxType:            strings.TrimSpace(raw.TaxType),
		Amount:             amount,
	}, nil
}

// ParseDate accepts YYYY-MM-DD, YYYY/MM/DD and RFC3339 timestamps; only the
// calendar date is kept.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(time.DateOnly) && (s[10] == 'T' || s[10] == ' ') {
		s = s[:10]
	}
	for _, layout := range []string{time.DateOnly, "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}
