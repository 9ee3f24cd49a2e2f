// Package export turns grid rows into a format-neutral sheet that the xlsx
// and pdf writers render.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/domain/shared"
)

// Format is an export file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", shared.NewDomainError("INVALID_EXPORT_FORMAT", "Export format must be xlsx or pdf")
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// SheetColumn is one exported column
type SheetColumn struct {
	Key    string
	Header string
	Width  int
}

// Sheet is a rendered table: headers plus display text per cell
type Sheet struct {
	Title   string
	Columns []SheetColumn
	Rows    [][]string
}

// IsIdentifierColumn reports columns that never leave the system: any
// column whose key contains "id" in any case.
func IsIdentifierColumn(key string) bool {
	return strings.Contains(strings.ToLower(key), "id")
}

// BuildSheet lays out the given visible columns, in order, dropping
// identifier columns. cell returns the display text of row r for a key.
func BuildSheet(title string, state gridlayout.TableState, rowCount int, cell func(r int, key string) string) Sheet {
	s := Sheet{Title: title}
	for _, c := range state.VisibleColumns() {
		if IsIdentifierColumn(c.ID) {
			continue
		}
		header := c.Header
		if header == "" {
			header = c.ID
		}
		s.Columns = append(s.Columns, SheetColumn{Key: c.ID, Header: header, Width: state.Sizes[c.ID]})
	}
	s.Rows = make([][]string, rowCount)
	for r := range rowCount {
		row := make([]string, len(s.Columns))
		for i, c := range s.Columns {
			row[i] = cell(r, c.Key)
		}
		s.Rows[r] = row
	}
	return s
}

// Headers returns the column headers in order
func (s Sheet) Headers() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

// FileName builds "<title>_<yyyymmdd_hhmmss>.<ext>" with a filesystem-safe title
func FileName(title string, f Format, at time.Time) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, title)
	if safe == "" {
		safe = "export"
	}
	return fmt.Sprintf("%s_%s.%s", safe, at.Format("20060102_150405"), f)
}

// Writer renders a sheet into a file of one format
type Writer interface {
	Format() Format
	Write(ctx context.Context, sheet Sheet) ([]byte, error)
}
