package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/erp/workbench/internal/domain/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSheet() export.Sheet {
	return export.Sheet{
		Title: "Purchase Invoices",
		Columns: []export.SheetColumn{
			{Key: "number", Header: "Number", Width: 140},
			{Key: "supplier", Header: "Supplier"},
			{Key: "amount", Header: "Amount", Width: 70},
		},
		Rows: [][]string{
			{"PI-0001", "Acme <Ltd>", "1,250.00"},
			{"PI-0002", "Globex", "80.50"},
		},
	}
}

func TestXLSXWriter_Write(t *testing.T) {
	w := NewXLSXWriter()
	assert.Equal(t, export.FormatXLSX, w.Format())

	data, err := w.Write(context.Background(), sampleSheet())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	t.Run("should name the worksheet after the title", func(t *testing.T) {
		assert.Equal(t, []string{"Purchase Invoices"}, f.GetSheetList())
	})

	t.Run("should write headers then rows in column order", func(t *testing.T) {
		rows, err := f.GetRows("Purchase Invoices")
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"Number", "Supplier", "Amount"},
			{"PI-0001", "Acme <Ltd>", "1,250.00"},
			{"PI-0002", "Globex", "80.50"},
		}, rows)
	})

	t.Run("should make the header bold", func(t *testing.T) {
		styleID, err := f.GetCellStyle("Purchase Invoices", "B1")
		require.NoError(t, err)
		style, err := f.GetStyle(styleID)
		require.NoError(t, err)
		require.NotNil(t, style.Font)
		assert.True(t, style.Font.Bold)
	})

	t.Run("should convert pixel widths to character widths", func(t *testing.T) {
		width, err := f.GetColWidth("Purchase Invoices", "A")
		require.NoError(t, err)
		assert.InDelta(t, 20.0, width, 0.01)

		width, err = f.GetColWidth("Purchase Invoices", "B")
		require.NoError(t, err)
		assert.InDelta(t, defaultCharWidth, width, 0.01)
	})
}

func TestXLSXWriter_EmptySheet(t *testing.T) {
	data, err := NewXLSXWriter().Write(context.Background(), export.Sheet{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Export"}, f.GetSheetList())
}

func TestXLSXWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewXLSXWriter().Write(ctx, sampleSheet())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Invoices", "Invoices"},
		{"  a/b:c?  ", "abc"},
		{"'quoted'", "quoted"},
		{"", "Export"},
		{"[]*", "Export"},
		{"An extremely long worksheet title that excel rejects", "An extremely long worksheet tit"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, sheetName(tt.title))
		})
	}
}
