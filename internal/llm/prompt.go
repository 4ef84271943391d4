package llm

import (
	"strings"
)

// SystemPrompt is the fixed instruction set sent with every receipt.
// The tie-break rules are business rules; callers cannot change them.
func SystemPrompt() string {
	parts := []string{
		"You are a parser for Nigerian tax payment receipts (Lagos State IRS, FIRS and bank remittance slips).",
		"Return ONLY JSON that matches the provided JSON Schema.",
		"companyName: the taxpayer or company that made the payment, not the bank or the tax authority.",
		"paymentDate: the date the payment was made, ISO-8601 (YYYY-MM-DD).",
		"paymentPeriod: the month the tax relates to as a 3-letter month and 2-digit year, e.g. Jan-25. If no period is printed, use an empty string.",
		"receiptNumber: when both a 'Transaction number' and an 'Assessment Reference' appear, use the Transaction number.",
		"taxType: prefer the specific tax name (e.g. 'PAYE', 'Withholding Tax', 'Development Levy') over generic labels such as 'Revenue Payment'.",
		"amount: a plain number without currency symbols or separators. When both 'Total' and 'Amount' appear, use the Total.",
		"Never invent values. Never wrap the JSON in code fences.",
	}
	return strings.Join(parts, " ")
}

// UserPrompt packages the filename hint that accompanies the attached document.
func UserPrompt(filename string) string {
	var b strings.Builder
	if f := strings.TrimSpace(filename); f != "" {
		b.WriteString("Filename: ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("Extract the remittance fields from the attached receipt.")
	return b.String()
}
