// Package export renders sheets into xlsx and pdf files.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/erp/workbench/internal/domain/export"
	"github.com/xuri/excelize/v2"
)

const (
	// excel column width is measured in characters, layouts in pixels
	pixelsPerChar    = 7.0
	defaultCharWidth = 15.0
	maxCharWidth     = 80.0
	maxSheetName     = 31
)

// XLSXWriter writes a sheet as a single-worksheet workbook
type XLSXWriter struct{}

// NewXLSXWriter creates an XLSXWriter
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Format implements export.Writer
func (w *XLSXWriter) Format() export.Format {
	return export.FormatXLSX
}

// Write implements export.Writer
func (w *XLSXWriter) Write(ctx context.Context, sheet export.Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(sheet.Title)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E7E6E6"}},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := setRow(f, name, 1, sheet.Headers()); err != nil {
		return nil, err
	}
	if len(sheet.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(sheet.Columns), 1)
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, row := range sheet.Rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := setRow(f, name, i+2, row); err != nil {
			return nil, err
		}
	}

	for i, c := range sheet.Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(name, col, col, columnWidth(c.Width)); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func columnWidth(px int) float64 {
	if px <= 0 {
		return defaultCharWidth
	}
	return min(float64(px)/pixelsPerChar, maxCharWidth)
}

// sheetName strips characters excel rejects in worksheet names
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.Trim(name, "'")
	if name == "" {
		return "Export"
	}
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	return name
}

var _ export.Writer = (*XLSXWriter)(nil)
