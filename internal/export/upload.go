package export

import (
	"slices"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/classify"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/entity"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/ledger"
)

// UploadFilename is fixed; the portal does not care about the name.
const UploadFilename = "Lagos_State_Upload_Schedule"

const uploadSheet = "Sheet1"

// UploadHeaders are consumed verbatim by the portal importer. Do not reorder.
var UploadHeaders = []string{
	"REVENUE ITEM",
	"DATE OF PAYMENT",
	"AMOUNT PAID",
	"RECEIPT NUMBER",
	"PERIOD OF PAYMENT",
}

var uploadWidths = []float64{32, 18, 16, 26, 20}

// UploadExporter writes the flat single-sheet portal template.
type UploadExporter struct{}

func (UploadExporter) Export(l *ledger.Ledger) (Artifact, error) {
	if err := requireRecords(l); err != nil {
		return Artifact{}, err
	}

	recs := l.Records()
	slices.SortStableFunc(recs, entity.CompareByDate)

	sheet := Sheet{Name: uploadSheet}
	for i, w := range uploadWidths {
		sheet.Columns = append(sheet.Columns, Column{Index: i + 1, Width: w})
	}

	header := Row{Number: 1}
	for i, h := range UploadHeaders {
		header.Cells = append(header.Cells, Cell{Col: i + 1, Value: h})
	}
	sheet.Rows = append(sheet.Rows, header)

	for i, r := range classify.ClassifyAll(recs) {
		sheet.Rows = append(sheet.Rows, Row{
			Number: i + 2,
			Cells: []Cell{
				{Col: 1, Value: r.DisplayTaxType},
				{Col: 2, Value: r.Date(), Format: Format{NumFmt: DateNumFmt}},
				{Col: 3, Value: r.Amount},
				{Col: 4, Value: r.ReceiptNumber},
				{Col: 5, Value: r.PeriodValue},
			},
		})
	}

	return Artifact{Filename: UploadFilename, Workbook: Workbook{Sheets: []Sheet{sheet}}}, nil
}
