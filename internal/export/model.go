package export

// Workbook is a spreadsheet described as data. Exporters build it; the
// renderer in xlsx.go is the only code that talks to excelize.
type Workbook struct {
	Sheets []Sheet
}

type Sheet struct {
	Name    string
	Columns []Column
	Rows    []Row
}

// Column sets the width of a 1-based column.
type Column struct {
	Index int
	Width float64
}

// Row is a 1-based sheet row. Rows absent from Sheet.Rows are blank.
type Row struct {
	Number int
	Cells  []Cell
}

// Cell is placed by 1-based column. Value is a string, float64, time.Time or
// decimal.Decimal.
type Cell struct {
	Col    int
	Value  any
	Format Format
}

// Format is a cell-format descriptor. The zero value means unstyled.
type Format struct {
	Bold      bool
	Border    bool
	Fill      string // RGB hex, e.g. "D9E1F2"
	NumFmt    string // custom number format code
	Underline string // "", "single" or "double"
}

func (f Format) IsZero() bool { return f == Format{} }

const (
	DateNumFmt   = "dd/mm/yyyy"
	AmountNumFmt = "#,##0.00"
	HeaderFill   = "D9E1F2"
)

// Sheet returns the named sheet and whether it exists.
func (w Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Row returns row n and whether it has any cells.
func (s Sheet) Row(n int) (Row, bool) {
	for _, r := range s.Rows {
		if r.Number == n {
			return r, true
		}
	}
	return Row{}, false
}

// Cell returns the cell at 1-based column col.
func (r Row) Cell(col int) (Cell, bool) {
	for _, c := range r.Cells {
		if c.Col == col {
			return c, true
		}
	}
	return Cell{}, false
}

// Values returns cell values in column order, nil for gaps.
func (r Row) Values() []any {
	width := 0
	for _, c := range r.Cells {
		width = max(width, c.Col)
	}
	out := make([]any, width)
	for _, c := range r.Cells {
		out[c.Col-1] = c.Value
	}
	return out
}
