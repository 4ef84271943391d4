package entity

import (
	"strconv"
	"strings"
	"time"
)

// DisplayDateLayout is the DD/MM/YYYY form used on every exported sheet.
const DisplayDateLayout = "02/01/2006"

// Record is a normalized receipt, the unit held by the ledger.
type Record struct {
	CompanyName        string  `json:"company_name"`
	PaymentDate        string  `json:"payment_date"`         // YYYY-MM-DD
	PaymentDateDisplay string  `json:"payment_date_display"` // DD/MM/YYYY, derived
	PaymentPeriod      string  `json:"payment_period"`       // Mon-YY
	ReceiptNumber      string  `json:"receipt_number"`
	TaxType            string  `json:"tax_type"` // raw
	Amount             float64 `json:"amount"`
}

// Date parses PaymentDate. A record that passed normalization always parses.
func (r Record) Date() time.Time {
	t, err := time.Parse(time.DateOnly, r.PaymentDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IdentityKey is the trimmed receipt number and the amount in shortest decimal form.
func (r Record) IdentityKey() string {
	return IdentityKey(r.ReceiptNumber, r.Amount)
}

func IdentityKey(receiptNumber string, amount float64) string {
	return strings.TrimSpace(receiptNumber) + "-" + strconv.FormatFloat(amount, 'f', -1, 64)
}

// CompareByDate orders records by payment date; suitable for stable sorts.
func CompareByDate(a, b Record) int {
	return a.Date().Compare(b.Date())
}
