package constants

import (
	"strings"
)

// TaxCode is the canonical short-code for a remitted tax.
type TaxCode string

const (
	WHT  TaxCode = "WHT"
	VAT  TaxCode = "VAT"
	PAYE TaxCode = "PAYE"
	CIT  TaxCode = "CIT"
	EDT  TaxCode = "EDT"
	TAX  TaxCode = "TAX" // generic fallback
)

// taxMatchers is ordered; the first matcher with a hit wins.
var taxMatchers = []struct {
	code    TaxCode
	needles []string
}{
	{WHT, []string{"WHT", "WITHHOLDING"}},
	{VAT, []string{"VAT", "VALUE ADDED"}},
	{PAYE, []string{"PAYE", "PAY AS YOU EARN"}},
	{CIT, []string{"CIT", "COMPANY INCOME"}},
	{EDT, []string{"EDT", "EDUCATION"}},
}

var allTaxCodes = []TaxCode{WHT, VAT, PAYE, CIT, EDT, TAX}

func AsStringSlice() []string {
	result := make([]string, len(allTaxCodes))
	for i, c := range allTaxCodes {
		result[i] = string(c)
	}
	return result
}

// CanonicalizeTax maps a free-text tax type onto a TaxCode by case-insensitive
// substring match. Unmatched input yields TAX and false.
func CanonicalizeTax(input string) (TaxCode, bool) {
	upper := strings.ToUpper(input)
	if strings.TrimSpace(upper) == "" {
		return TAX, false
	}
	for _, m := range taxMatchers {
		for _, n := range m.needles {
			if strings.Contains(upper, n) {
				return m.code, true
			}
		}
	}
	return TAX, false
}

// revenueAliases are generic portal labels that Lagos State receipts print for PAYE remittances.
var revenueAliases = map[string]struct{}{
	"REVENUE PAYMENT": {},
	"REVENUE RECEIPT": {},
}

// IsRevenueAlias reports whether a tax type is one of the generic revenue labels
// shown as PAYE on the upload template.
func IsRevenueAlias(input string) bool {
	upper := strings.ToUpper(input)
	if strings.Contains(upper, "LAGOS REVENUE PAYMENT") {
		return true
	}
	_, ok := revenueAliases[upper]
	return ok
}
