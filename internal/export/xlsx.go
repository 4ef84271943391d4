package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// RenderXLSX writes a Workbook to XLSX bytes.
func RenderXLSX(wb Workbook) ([]byte, error) {
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("xlsx: workbook has no sheets")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	r := &renderer{f: f, styles: map[Format]int{}}
	for i, s := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("xlsx: new sheet %q: %w", s.Name, err)
		}
		if err := r.sheet(s); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

type renderer struct {
	f      *excelize.File
	styles map[Format]int
}

func (r *renderer) sheet(s Sheet) error {
	for _, c := range s.Columns {
		name, err := excelize.ColumnNumberToName(c.Index)
		if err != nil {
			return err
		}
		if err := r.f.SetColWidth(s.Name, name, name, c.Width); err != nil {
			return fmt.Errorf("xlsx: width %s!%s: %w", s.Name, name, err)
		}
	}
	for _, row := range s.Rows {
		for _, c := range row.Cells {
			cell, err := excelize.CoordinatesToCellName(c.Col, row.Number)
			if err != nil {
				return err
			}
			if err := r.f.SetCellValue(s.Name, cell, cellValue(c.Value)); err != nil {
				return fmt.Errorf("xlsx: set %s!%s: %w", s.Name, cell, err)
			}
			if c.Format.IsZero() {
				continue
			}
			id, err := r.style(c.Format)
			if err != nil {
				return err
			}
			if err := r.f.SetCellStyle(s.Name, cell, cell, id); err != nil {
				return fmt.Errorf("xlsx: style %s!%s: %w", s.Name, cell, err)
			}
		}
	}
	return nil
}

// style returns one excelize style id per distinct Format.
func (r *renderer) style(fm Format) (int, error) {
	if id, ok := r.styles[fm]; ok {
		return id, nil
	}
	st := &excelize.Style{}
	if fm.Bold || fm.Underline != "" {
		st.Font = &excelize.Font{Bold: fm.Bold, Underline: fm.Underline}
	}
	if fm.Border {
		for _, side := range []string{"left", "top", "right", "bottom"} {
			st.Border = append(st.Border, excelize.Border{Type: side, Color: "000000", Style: 1})
		}
	}
	if fm.Fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fm.Fill}}
	}
	if fm.NumFmt != "" {
		code := fm.NumFmt
		st.CustomNumFmt = &code
	}
	id, err := r.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("xlsx: new style: %w", err)
	}
	r.styles[fm] = id
	return id, nil
}

func cellValue(v any) any {
	switch t := v.(type) {
	case decimal.Decimal:
		return t.InexactFloat64()
	case time.Time:
		return t.UTC()
	}
	return v
}
