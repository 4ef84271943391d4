package cli

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/ledger"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/pipeline"
)

// printSummary writes the batch tally and the ledger total with grouped digits,
// e.g. "total 1,234,567.50".
func printSummary(w io.Writer, documents int, c pipeline.Counts, l *ledger.Ledger) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%d of %d documents admitted (%d warnings, %d errors)\n",
		l.Len(), documents, c.Warning, c.Error)
	p.Fprintf(w, "total %v\n", number.Decimal(l.Total().InexactFloat64(), number.Scale(2)))
}
