// Package classify derives the export-time view of ledger records: canonical
// tax codes, display tax types, period values and year buckets. Nothing here
// is written back to the ledger.
package classify

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/constants"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/entity"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/normalize"
)

// UnknownYear buckets records whose period carries no trailing year.
const UnknownYear = "Unknown"

var reTrailingYear = regexp.MustCompile(`(\d{4}|\d{2})$`)

// Row is a ledger record annotated for export.
type Row struct {
	entity.Record
	CanonicalTaxType constants.TaxCode
	DisplayTaxType   string
	PeriodValue      string
	YearBucket       string
}

func Classify(rec entity.Record) Row {
	display := DisplayTaxType(rec.TaxType)
	return Row{
		Record:           rec,
		CanonicalTaxType: CanonicalTaxType(rec.TaxType),
		DisplayTaxType:   display,
		PeriodValue:      periodValue(rec, display),
		YearBucket:       YearBucket(rec.PaymentPeriod),
	}
}

func ClassifyAll(recs []entity.Record) []Row {
	rows := make([]Row, len(recs))
	for i, r := range recs {
		rows[i] = Classify(r)
	}
	return rows
}

// CanonicalTaxType matches WHT, VAT, PAYE, CIT and EDT in that priority, else TAX.
func CanonicalTaxType(taxType string) constants.TaxCode {
	code, _ := constants.CanonicalizeTax(taxType)
	return code
}

// DisplayTaxType rewrites generic Lagos revenue labels to PAYE and leaves
// everything else as extracted.
func DisplayTaxType(taxType string) string {
	if constants.IsRevenueAlias(taxType) {
		return string(constants.PAYE)
	}
	return taxType
}

// IsPAYEFamily reports whether a display tax type names PAYE.
func IsPAYEFamily(display string) bool {
	upper := strings.ToUpper(display)
	return strings.Contains(upper, "PAYE") || strings.Contains(upper, "PAY AS YOU EARN")
}

// PeriodValue is the upload template's PERIOD OF PAYMENT: the full uppercase
// month for PAYE, the 4-digit year otherwise.
func PeriodValue(rec entity.Record) string {
	return periodValue(rec, DisplayTaxType(rec.TaxType))
}

func periodValue(rec entity.Record, display string) string {
	month, year, ok := splitPeriod(rec.PaymentPeriod)
	if !ok {
		d := rec.Date()
		month, year = d.Month(), d.Year()
	}
	if IsPAYEFamily(display) {
		return strings.ToUpper(month.String())
	}
	return strconv.Itoa(year)
}

// splitPeriod reads Mon-YY or Mon-YYYY. Anything that does not split into a
// known month and a 2 or 4 digit year is reported as not ok.
func splitPeriod(period string) (time.Month, int, bool) {
	parts := strings.Split(strings.TrimSpace(period), "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	month, ok := normalize.LookupMonth(parts[0])
	if !ok {
		return 0, 0, false
	}
	yearStr := strings.TrimSpace(parts[1])
	if _, err := strconv.Atoi(yearStr); err != nil {
		return 0, 0, false
	}
	year, err := normalize.ExpandYear(yearStr)
	if err != nil {
		return 0, 0, false
	}
	return month, year, true
}

// YearBucket takes the trailing 2 or 4 digit year of a period, expanded to 4 digits.
func YearBucket(period string) string {
	m := reTrailingYear.FindString(strings.TrimSpace(period))
	if m == "" {
		return UnknownYear
	}
	if len(m) == 2 {
		return "20" + m
	}
	return m
}
