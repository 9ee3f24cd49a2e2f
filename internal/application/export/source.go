package export

import (
	"context"

	"github.com/erp/workbench/internal/domain/datagrid"
	"github.com/erp/workbench/internal/domain/export"
	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/google/uuid"
)

// Source provides the rows of one grid for export
type Source interface {
	Columns() gridlayout.Columns
	// Sheet lays out every row matching search, ignoring pagination. It
	// returns ErrTooManyRows when more than maxRows rows match.
	Sheet(ctx context.Context, tenantID uuid.UUID, state gridlayout.TableState, title, search string, maxRows int) (export.Sheet, error)
}

// TableSource adapts a datagrid table and its row loader to Source
type TableSource[T any] struct {
	table *datagrid.Table[T]
	rows  func(ctx context.Context, tenantID uuid.UUID) ([]T, error)
}

// NewTableSource creates a Source over table
func NewTableSource[T any](table *datagrid.Table[T], rows func(ctx context.Context, tenantID uuid.UUID) ([]T, error)) *TableSource[T] {
	return &TableSource[T]{table: table, rows: rows}
}

// Columns returns the table's columns
func (s *TableSource[T]) Columns() gridlayout.Columns {
	return s.table.Columns()
}

// Sheet filters and sorts the rows the way the grid shows them
func (s *TableSource[T]) Sheet(ctx context.Context, tenantID uuid.UUID, state gridlayout.TableState, title, search string, maxRows int) (export.Sheet, error) {
	rows, err := s.rows(ctx, tenantID)
	if err != nil {
		return export.Sheet{}, err
	}
	arranged := s.table.Arrange(rows, state, search)
	if maxRows > 0 && len(arranged) > maxRows {
		return export.Sheet{}, ErrTooManyRows
	}
	return export.BuildSheet(title, state, len(arranged), func(r int, key string) string {
		return datagrid.FormatValue(s.table.Value(rows[arranged[r]], key))
	}), nil
}
