package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/erp/workbench/internal/domain/export"
	"github.com/erp/workbench/internal/infrastructure/printing"
)

var tableTemplate = template.Must(template.New("table").Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>{{.Title}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 9pt; color: #222; }
h1 { font-size: 13pt; margin: 0 0 4px 0; }
.meta { color: #777; margin-bottom: 8px; }
table { border-collapse: collapse; width: 100%; table-layout: fixed; }
th, td { border: 1px solid #ccc; padding: 3px 5px; overflow-wrap: anywhere; text-align: left; }
th { background: #e7e6e6; font-weight: bold; }
thead { display: table-header-group; }
tr { page-break-inside: avoid; }
</style></head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">{{.GeneratedAt}} &middot; {{len .Rows}} rows</div>
<table>
<colgroup>{{range .Columns}}<col{{if gt .Width 0}} style="width:{{.Width}}px"{{end}}>{{end}}</colgroup>
<thead><tr>{{range .Columns}}<th>{{.Header}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>
</table>
</body></html>`))

const pageFooter = `<div style="font-size:8px;width:100%;text-align:center;color:#777;">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// PDFWriter renders a sheet as an html table and prints it landscape on A4
type PDFWriter struct {
	renderer printing.PDFRenderer
	timeout  time.Duration
	now      func() time.Time
}

// NewPDFWriter creates a PDFWriter. timeout bounds a single render; zero
// uses the renderer default.
func NewPDFWriter(renderer printing.PDFRenderer, timeout time.Duration) *PDFWriter {
	return &PDFWriter{renderer: renderer, timeout: timeout, now: time.Now}
}

// Format implements export.Writer
func (w *PDFWriter) Format() export.Format {
	return export.FormatPDF
}

// Write implements export.Writer
func (w *PDFWriter) Write(ctx context.Context, sheet export.Sheet) ([]byte, error) {
	html, err := w.renderHTML(sheet)
	if err != nil {
		return nil, err
	}

	result, err := w.renderer.Render(ctx, &printing.RenderRequest{
		HTML:       html,
		Title:      sheet.Title,
		PaperSize:  printing.PaperSizeA4,
		Landscape:  true,
		Margins:    printing.DefaultMargins(),
		FooterHTML: pageFooter,
		Timeout:    w.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return result.PDFData, nil
}

func (w *PDFWriter) renderHTML(sheet export.Sheet) (string, error) {
	var buf bytes.Buffer
	err := tableTemplate.Execute(&buf, struct {
		Title       string
		GeneratedAt string
		Columns     []export.SheetColumn
		Rows        [][]string
	}{
		Title:       sheet.Title,
		GeneratedAt: w.now().Format("2006-01-02 15:04"),
		Columns:     sheet.Columns,
		Rows:        sheet.Rows,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build pdf html: %w", err)
	}
	return buf.String(), nil
}

var _ export.Writer = (*PDFWriter)(nil)
