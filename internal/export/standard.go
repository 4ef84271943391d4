package export

import (
	"slices"
	"strconv"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/classify"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/entity"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/ledger"
)

// DefaultCompany heads a year sheet with no records.
const DefaultCompany = "NASD PLC"

// StandardHeaders sit on row 4 of every year sheet.
var StandardHeaders = []string{"PAYMENT DATE", "PERIOD", "RECEIPT NUMBER", "TAX TYPE", "AMOUNT"}

const (
	colDate = iota + 1
	colPeriod
	colReceipt
	colTaxType
	colAmount
)

const (
	rowCompany   = 1
	rowTitle     = 2
	rowHeader    = 4
	rowFirstData = 5
)

var standardWidths = []float64{16, 12, 26, 34, 18}

var (
	headerFormat = Format{Bold: true, Border: true, Fill: HeaderFill}
	textFormat   = Format{Border: true}
	dateFormat   = Format{Border: true, NumFmt: DateNumFmt}
	amountFormat = Format{Border: true, NumFmt: AmountNumFmt}
	totalFormat  = Format{Bold: true, Underline: "double", NumFmt: AmountNumFmt}
)

// StandardExporter writes one styled sheet per year bucket with a totals row.
type StandardExporter struct{}

func (StandardExporter) Export(l *ledger.Ledger) (Artifact, error) {
	if err := requireRecords(l); err != nil {
		return Artifact{}, err
	}

	rows := classify.ClassifyAll(l.Records())
	wb := Workbook{}
	for _, year := range bucketOrder(rows) {
		var bucket []classify.Row
		for _, r := range rows {
			if r.YearBucket == year {
				bucket = append(bucket, r)
			}
		}
		wb.Sheets = append(wb.Sheets, yearSheet(year, bucket))
	}

	return Artifact{Filename: StandardFilename(rows), Workbook: wb}, nil
}

// SheetName is the title of a year bucket's sheet.
func SheetName(year string) string { return "Remittance " + year }

func yearSheet(year string, bucket []classify.Row) Sheet {
	slices.SortStableFunc(bucket, func(a, b classify.Row) int {
		return entity.CompareByDate(a.Record, b.Record)
	})

	company, ok := dominantCompany(bucket)
	if !ok {
		company = DefaultCompany
	}

	sheet := Sheet{Name: SheetName(year)}
	for i, w := range standardWidths {
		sheet.Columns = append(sheet.Columns, Column{Index: i + 1, Width: w})
	}

	sheet.Rows = append(sheet.Rows,
		Row{Number: rowCompany, Cells: []Cell{{Col: 1, Value: company, Format: Format{Bold: true}}}},
		Row{Number: rowTitle, Cells: []Cell{{Col: 1, Value: "REMITTANCE SCHEDULE FOR " + year, Format: Format{Bold: true}}}},
	)

	header := Row{Number: rowHeader}
	for i, h := range StandardHeaders {
		header.Cells = append(header.Cells, Cell{Col: i + 1, Value: h, Format: headerFormat})
	}
	sheet.Rows = append(sheet.Rows, header)

	recs := make([]entity.Record, 0, len(bucket))
	for i, r := range bucket {
		recs = append(recs, r.Record)
		sheet.Rows = append(sheet.Rows, Row{
			Number: rowFirstData + i,
			Cells: []Cell{
				{Col: colDate, Value: r.Date(), Format: dateFormat},
				{Col: colPeriod, Value: r.PaymentPeriod, Format: textFormat},
				{Col: colReceipt, Value: r.ReceiptNumber, Format: textFormat},
				{Col: colTaxType, Value: r.TaxType, Format: textFormat},
				{Col: colAmount, Value: r.Amount, Format: amountFormat},
			},
		})
	}

	// one blank spacer row, then the total
	sheet.Rows = append(sheet.Rows, Row{
		Number: rowFirstData + len(bucket) + 1,
		Cells: []Cell{
			{Col: colTaxType, Value: "Total", Format: Format{Bold: true}},
			{Col: colAmount, Value: ledger.SumAmounts(recs), Format: totalFormat},
		},
	})
	return sheet
}

// bucketOrder lists year buckets with numeric years ascending and Unknown last.
func bucketOrder(rows []classify.Row) []string {
	var years []string
	seen := map[string]struct{}{}
	for _, r := range rows {
		if _, ok := seen[r.YearBucket]; ok {
			continue
		}
		seen[r.YearBucket] = struct{}{}
		years = append(years, r.YearBucket)
	}
	slices.SortFunc(years, func(a, b string) int {
		ai, aErr := strconv.Atoi(a)
		bi, bErr := strconv.Atoi(b)
		switch {
		case aErr != nil && bErr != nil:
			return 0
		case aErr != nil:
			return 1
		case bErr != nil:
			return -1
		}
		return ai - bi
	})
	return years
}

// dominantCompany is the most frequent company name; ties go to the name seen first.
func dominantCompany(rows []classify.Row) (string, bool) {
	counts := map[string]int{}
	var order []string
	for _, r := range rows {
		if _, ok := counts[r.CompanyName]; !ok {
			order = append(order, r.CompanyName)
		}
		counts[r.CompanyName]++
	}
	best, bestN := "", 0
	for _, name := range order {
		if counts[name] > bestN {
			best, bestN = name, counts[name]
		}
	}
	return best, bestN > 0
}
