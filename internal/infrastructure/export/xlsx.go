// Package export renders ledger statements and stock movement logs as
// XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	// ContentTypeXLSX is the MIME type of the generated workbooks
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLayout = "2006-01-02"
	// numFmtMoney is the built-in "#,##0.00" format
	numFmtMoney = 4
)

// sheet writes rows to one worksheet: a title block, a header row and the
// data rows below it
type sheet struct {
	file        *excelize.File
	name        string
	row         int
	headerStyle int
	moneyStyle  int
}

func newSheet(name string) (*sheet, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(name)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, fmt.Errorf("create number style: %w", err)
	}

	return &sheet{file: f, name: name, headerStyle: headerStyle, moneyStyle: moneyStyle}, nil
}

// addRow writes values to the next row. Decimal values are stored exactly
// and shown with two decimals by the money style.
func (s *sheet) addRow(values ...any) error {
	s.row++
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, s.row)
		if err != nil {
			return err
		}
		if d, ok := v.(decimal.Decimal); ok {
			if err := s.file.SetCellFloat(s.name, cell, d.InexactFloat64(), -1, 64); err != nil {
				return err
			}
			if err := s.file.SetCellStyle(s.name, cell, cell, s.moneyStyle); err != nil {
				return err
			}
			continue
		}
		if err := s.file.SetCellValue(s.name, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// addHeader writes a bold header row and freezes the panes below it
func (s *sheet) addHeader(headers ...string) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := s.addRow(values...); err != nil {
		return err
	}
	if err := s.file.SetRowStyle(s.name, s.row, s.row, s.headerStyle); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := s.file.SetColWidth(s.name, "A", last, 16); err != nil {
		return err
	}
	return s.file.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      s.row,
		TopLeftCell: fmt.Sprintf("A%d", s.row+1),
		ActivePane:  "bottomLeft",
	})
}

func (s *sheet) skipRow() {
	s.row++
}

func (s *sheet) writeTo(w io.Writer) error {
	defer s.file.Close()
	if _, err := s.file.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
