package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/entity"
)

func rec(receipt, date string, amount float64) entity.Record {
	return entity.Record{CompanyName: "NASD PLC", ReceiptNumber: receipt, PaymentDate: date, Amount: amount}
}

func receipts(recs []entity.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ReceiptNumber
	}
	return out
}

func TestFinalize_SortsStableByDate(t *testing.T) {
	accepted := []entity.Record{
		rec("C", "2024-03-01", 1),
		rec("A", "2024-01-15", 1),
		rec("D", "2024-03-01", 1),
		rec("B", "2024-02-01", 1),
		rec("E", "2024-03-01", 1),
	}
	l := Finalize(accepted)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, receipts(l.Records()))
	// input untouched
	assert.Equal(t, "C", accepted[0].ReceiptNumber)
}

func TestLedger_RecordsIsACopy(t *testing.T) {
	l := Finalize([]entity.Record{rec("A", "2024-01-01", 1)})
	got := l.Records()
	got[0].ReceiptNumber = "changed"
	assert.Equal(t, "A", l.Records()[0].ReceiptNumber)
}

func TestLedger_Total(t *testing.T) {
	l := Finalize([]entity.Record{
		rec("A", "2024-01-01", 0.1),
		rec("B", "2024-01-02", 0.2),
		rec("C", "2024-01-03", 1250000.55),
	})
	assert.Equal(t, "1250000.85", l.Total().String())
	assert.Equal(t, 3, l.Len())
	assert.False(t, l.IsEmpty())
}

func TestLedger_Nil(t *testing.T) {
	var l *Ledger
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.Records())
	assert.True(t, l.Total().IsZero())
	assert.True(t, Finalize(nil).IsEmpty())
}

func TestDeduplicator(t *testing.T) {
	d := NewDeduplicator()
	first := rec("R-1", "2024-01-01", 5000)
	assert.True(t, d.Admit(first))

	// same trimmed receipt and amount, everything else different
	dup := entity.Record{CompanyName: "Other Ltd", ReceiptNumber: "  R-1 ", PaymentDate: "2025-06-01", TaxType: "VAT", Amount: 5000}
	assert.False(t, d.Admit(dup))

	assert.True(t, d.Admit(rec("R-1", "2024-01-01", 5000.5)))
	assert.True(t, d.Admit(rec("R-2", "2024-01-01", 5000)))
	assert.True(t, d.Admit(rec("r-1", "2024-01-01", 5000)))
	assert.Equal(t, 4, d.Len())
}
