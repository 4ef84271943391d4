package pipeline

import (
	"fmt"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/constants"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
)

// Diagnostic is the single outcome message for one input document.
type Diagnostic struct {
	Index         int                `json:"index"`
	Document      string             `json:"document"`
	Severity      constants.Severity `json:"severity"`
	Code          string             `json:"code,omitempty"`
	Message       string             `json:"message"`
	ReceiptNumber string             `json:"receipt_number,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Code == "" {
		return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Document, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (%s)", d.Severity, d.Document, d.Message, d.Code)
}

// Counts tallies diagnostics by severity.
type Counts struct {
	Success int
	Warning int
	Error   int
}

func Tally(diags []Diagnostic) Counts {
	var c Counts
	for _, d := range diags {
		switch d.Severity {
		case constants.SeveritySuccess:
			c.Success++
		case constants.SeverityWarning:
			c.Warning++
		case constants.SeverityError:
			c.Error++
		}
	}
	return c
}

// severityFor maps an error to its diagnostic severity: ineligible documents and
// duplicates warn, everything else is an error.
func severityFor(err error) constants.Severity {
	switch common.CodeOf(err) {
	case common.CodeValidation, common.CodeDuplicateReceipt:
		return constants.SeverityWarning
	}
	return constants.SeverityError
}

func failure(i int, name string, err error) Diagnostic {
	code := common.CodeOf(err)
	if code == "" {
		code = common.CodeService
	}
	return Diagnostic{
		Index:    i,
		Document: name,
		Severity: severityFor(err),
		Code:     code,
		Message:  err.Error(),
	}
}
