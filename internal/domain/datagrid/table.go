// Package datagrid renders in-memory row sets the way the workbench grids
// display them: filtered by a global search, sorted by the user's layout,
// paginated and padded, with per-row actions.
package datagrid

import (
	"context"
	"sort"
	"strings"

	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/domain/shared"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Page size bounds
const (
	DefaultPageSize = 10
	MaxPageSize     = 500
	MaxPage         = 1_000_000
)

// Accessor binds a column definition to a value getter
type Accessor[T any] struct {
	Column gridlayout.Column
	Value  func(T) any
}

// Query controls search and pagination of a render
type Query struct {
	Search   string
	Page     int
	PageSize int
	// Pad fills short pages with blank rows up to PageSize
	Pad bool
}

// Normalize applies defaults and bounds
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Row is one rendered row. Index points into the unfiltered data set and is
// the key used by Selection. Blank rows are padding and carry no data.
type Row struct {
	Index   int            `json:"index"`
	ID      string         `json:"id,omitempty"`
	Cells   map[string]any `json:"cells"`
	Blank   bool           `json:"blank,omitempty"`
	Locked  bool           `json:"locked,omitempty"`
	Actions RowActions     `json:"actions"`
}

// View is one rendered page
type View struct {
	Columns    gridlayout.Columns    `json:"columns"`
	State      gridlayout.TableState `json:"state"`
	Rows       []Row                 `json:"rows"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// Table is a grid definition over rows of type T
type Table[T any] struct {
	columns   gridlayout.Columns
	accessors map[string]func(T) any
	rowID     func(T) string
	policy    ActionPolicy[T]
}

// NewTable creates a table. Column ids must be unique.
func NewTable[T any](rowID func(T) string, policy ActionPolicy[T], accessors ...Accessor[T]) (*Table[T], error) {
	t := &Table[T]{
		columns:   make(gridlayout.Columns, 0, len(accessors)),
		accessors: make(map[string]func(T) any, len(accessors)),
		rowID:     rowID,
		policy:    policy,
	}
	for _, a := range accessors {
		t.columns = append(t.columns, a.Column)
		t.accessors[a.Column.ID] = a.Value
	}
	if err := t.columns.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustNewTable is NewTable for static definitions
func MustNewTable[T any](rowID func(T) string, policy ActionPolicy[T], accessors ...Accessor[T]) *Table[T] {
	t, err := NewTable(rowID, policy, accessors...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns the column definitions in definition order
func (t *Table[T]) Columns() gridlayout.Columns {
	return t.columns
}

// Policy returns the row action policy
func (t *Table[T]) Policy() ActionPolicy[T] {
	return t.policy
}

// Value returns the cell value of row for column id
func (t *Table[T]) Value(row T, id string) any {
	if get, ok := t.accessors[id]; ok {
		return get(row)
	}
	return nil
}

// Arrange filters rows by search over the visible columns and sorts them by
// the state's sort rules. It returns indexes into rows.
func (t *Table[T]) Arrange(rows []T, state gridlayout.TableState, search string) []int {
	visible := state.VisibleColumns()
	needle := strings.ToLower(strings.TrimSpace(search))

	idx := make([]int, 0, len(rows))
	for i, r := range rows {
		if needle == "" || t.rowMatches(r, visible, needle) {
			idx = append(idx, i)
		}
	}

	if len(state.Sort) > 0 {
		coll := collate.New(language.Und, collate.IgnoreCase, collate.Numeric)
		sort.SliceStable(idx, func(a, b int) bool {
			ra, rb := rows[idx[a]], rows[idx[b]]
			for _, rule := range state.Sort {
				c := compareValues(t.Value(ra, rule.ColumnID), t.Value(rb, rule.ColumnID), coll)
				if c == 0 {
					continue
				}
				if rule.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	return idx
}

func (t *Table[T]) rowMatches(row T, visible gridlayout.Columns, needle string) bool {
	for _, c := range visible {
		if matches(t.Value(row, c.ID), needle) {
			return true
		}
	}
	return false
}

// Render produces one page of the arranged rows
func (t *Table[T]) Render(rows []T, state gridlayout.TableState, q Query) View {
	q = q.Normalize()
	arranged := t.Arrange(rows, state, q.Search)
	visible := state.VisibleColumns()

	total := len(arranged)
	totalPages := (total + q.PageSize - 1) / q.PageSize
	start := total
	if q.Page-1 < totalPages {
		start = (q.Page - 1) * q.PageSize
	}
	end := min(start+q.PageSize, total)

	out := make([]Row, 0, q.PageSize)
	for _, i := range arranged[start:end] {
		out = append(out, t.row(rows[i], i, visible))
	}
	if q.Pad {
		out = Pad(out, q.PageSize)
	}

	return View{
		Columns:    visible,
		State:      state,
		Rows:       out,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}
}

func (t *Table[T]) row(r T, index int, visible gridlayout.Columns) Row {
	cells := make(map[string]any, len(visible))
	for _, c := range visible {
		cells[c.ID] = t.Value(r, c.ID)
	}
	return Row{
		Index:   index,
		ID:      t.rowID(r),
		Cells:   cells,
		Locked:  t.policy.Locked(r),
		Actions: t.policy.Actions(r),
	}
}

// Pad appends blank rows until rows has size entries
func Pad(rows []Row, size int) []Row {
	for len(rows) < size {
		rows = append(rows, Row{Index: -1, Blank: true, Cells: map[string]any{}})
	}
	return rows
}

// Toggle flips the selection of the row at index. Locked rows cannot be
// selected.
func (t *Table[T]) Toggle(sel *Selection, rows []T, index int) error {
	if index < 0 || index >= len(rows) {
		return shared.NewDomainError("INVALID_ROW", "Row index out of range")
	}
	if t.policy.Locked(rows[index]) {
		return shared.ErrLinkedDocument
	}
	sel.Set(index, !sel.IsSelected(index))
	return nil
}

// SelectedIDs returns the ids of exactly the selected rows, in data set
// order, after dropping indexes that no longer exist.
func (t *Table[T]) SelectedIDs(sel *Selection, rows []T) []string {
	sel.Sync(len(rows))
	ids := make([]string, 0, sel.Len())
	for _, i := range sel.Indices() {
		ids = append(ids, t.rowID(rows[i]))
	}
	return ids
}

// BulkDelete passes the selected ids to del and clears the selection on
// success. Nothing is deleted if the selection contains a locked row.
func (t *Table[T]) BulkDelete(ctx context.Context, sel *Selection, rows []T, del func(context.Context, []string) error) ([]string, error) {
	sel.Sync(len(rows))
	if sel.Len() == 0 {
		return nil, shared.NewDomainError("EMPTY_SELECTION", "No rows selected")
	}
	for _, i := range sel.Indices() {
		if t.policy.Locked(rows[i]) {
			return nil, shared.ErrLinkedDocument
		}
	}
	ids := t.SelectedIDs(sel, rows)
	if err := del(ctx, ids); err != nil {
		return nil, err
	}
	sel.Clear()
	return ids, nil
}
