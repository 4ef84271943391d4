package ledger

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/entity"
)

// Ledger is the deduplicated, date-ordered record set of one batch.
// It is read-only once Finalize returns it.
type Ledger struct {
	records []entity.Record
}

// Finalize stable-sorts accepted records ascending by payment date.
// Records sharing a date keep their admission order.
func Finalize(accepted []entity.Record) *Ledger {
	recs := slices.Clone(accepted)
	slices.SortStableFunc(recs, entity.CompareByDate)
	return &Ledger{records: recs}
}

// Records returns a copy of the ordered records.
func (l *Ledger) Records() []entity.Record {
	if l == nil {
		return nil
	}
	return slices.Clone(l.records)
}

func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

func (l *Ledger) IsEmpty() bool { return l.Len() == 0 }

// Total sums amounts in decimal so float noise does not reach the totals row.
func (l *Ledger) Total() decimal.Decimal {
	if l == nil {
		return decimal.Zero
	}
	return SumAmounts(l.records)
}

func SumAmounts(recs []entity.Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range recs {
		total = total.Add(decimal.NewFromFloat(r.Amount))
	}
	return total
}
