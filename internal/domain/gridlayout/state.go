package gridlayout

import (
	"maps"
	"slices"

	"github.com/erp/workbench/internal/domain/shared"
)

// SortRule is one entry of a multi-column sort
type SortRule struct {
	ColumnID string `json:"id"`
	Desc     bool   `json:"desc"`
}

// LayoutState is the persisted part of a grid's table state. Keys may
// reference columns that no longer exist.
type LayoutState struct {
	Visibility map[string]bool
	Order      []string
	Sizes      map[string]int
	Sort       []SortRule
}

// TableState is a LayoutState reconciled against a concrete column set:
// every column has a visibility and a size, Order is a permutation of the
// column ids and Sort only names sortable columns.
type TableState struct {
	Visibility map[string]bool `json:"visibility"`
	Order      []string        `json:"order"`
	Sizes      map[string]int  `json:"sizes"`
	Sort       []SortRule      `json:"sort"`

	columns map[string]Column
}

// DefaultState returns all columns visible, in definition order, at their
// default widths, unsorted.
func DefaultState(columns Columns) TableState {
	return Reconcile(columns, nil)
}

// Reconcile merges a persisted layout into the column set. Unknown keys are
// ignored and columns the layout does not mention take their defaults, with
// visibility defaulting to true.
func Reconcile(columns Columns, persisted *LayoutState) TableState {
	st := TableState{
		Visibility: make(map[string]bool, len(columns)),
		Order:      make([]string, 0, len(columns)),
		Sizes:      make(map[string]int, len(columns)),
		Sort:       []SortRule{},
		columns:    columns.index(),
	}
	if persisted == nil {
		persisted = &LayoutState{}
	}

	for _, c := range columns {
		visible, ok := persisted.Visibility[c.ID]
		if !ok || !c.Hideable {
			visible = true
		}
		st.Visibility[c.ID] = visible

		if w, ok := persisted.Sizes[c.ID]; ok {
			st.Sizes[c.ID] = c.ClampWidth(w)
		} else {
			st.Sizes[c.ID] = c.DefaultWidth()
		}
	}

	placed := make(map[string]bool, len(columns))
	for _, id := range persisted.Order {
		if _, known := st.columns[id]; !known || placed[id] {
			continue
		}
		st.Order = append(st.Order, id)
		placed[id] = true
	}
	for _, c := range columns {
		if !placed[c.ID] {
			st.Order = append(st.Order, c.ID)
		}
	}

	st.Sort = st.filterSort(persisted.Sort)
	return st
}

func (s *TableState) filterSort(rules []SortRule) []SortRule {
	out := make([]SortRule, 0, len(rules))
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		c, ok := s.columns[r.ColumnID]
		if !ok || !c.Sortable || seen[r.ColumnID] {
			continue
		}
		seen[r.ColumnID] = true
		out = append(out, r)
	}
	return out
}

// Move relocates the column at display position from to position to.
func (s *TableState) Move(from, to int) error {
	if from < 0 || from >= len(s.Order) || to < 0 || to >= len(s.Order) {
		return shared.NewDomainError("INVALID_COLUMN_POSITION", "Column position out of range")
	}
	s.Order = ArrayMove(s.Order, from, to)
	return nil
}

// MoveColumn relocates the column with the given id to position to
func (s *TableState) MoveColumn(id string, to int) error {
	from := slices.Index(s.Order, id)
	if from < 0 {
		return unknownColumn(id)
	}
	return s.Move(from, to)
}

// SetVisible shows or hides a column. Non-hideable columns stay visible.
func (s *TableState) SetVisible(id string, visible bool) error {
	c, ok := s.columns[id]
	if !ok {
		return unknownColumn(id)
	}
	if !visible && !c.Hideable {
		return shared.NewDomainError("COLUMN_NOT_HIDEABLE", "Column cannot be hidden: "+id)
	}
	s.Visibility[id] = visible
	return nil
}

// Resize sets a column width, clamped to its bounds
func (s *TableState) Resize(id string, width int) error {
	c, ok := s.columns[id]
	if !ok {
		return unknownColumn(id)
	}
	s.Sizes[id] = c.ClampWidth(width)
	return nil
}

// SetSort replaces the sort rules; rules for unknown or unsortable columns
// are dropped.
func (s *TableState) SetSort(rules []SortRule) {
	s.Sort = s.filterSort(rules)
}

// VisibleColumns returns the visible columns in display order
func (s *TableState) VisibleColumns() Columns {
	out := make(Columns, 0, len(s.Order))
	for _, id := range s.Order {
		if s.Visibility[id] {
			out = append(out, s.columns[id])
		}
	}
	return out
}

// Column returns the definition bound to this state
func (s *TableState) Column(id string) (Column, bool) {
	c, ok := s.columns[id]
	return c, ok
}

// Snapshot returns the persistable form of the state. When includeSort is
// false the sort is saved empty.
func (s *TableState) Snapshot(includeSort bool) LayoutState {
	ls := LayoutState{
		Visibility: maps.Clone(s.Visibility),
		Order:      slices.Clone(s.Order),
		Sizes:      maps.Clone(s.Sizes),
		Sort:       []SortRule{},
	}
	if includeSort {
		ls.Sort = slices.Clone(s.Sort)
	}
	return ls
}

func unknownColumn(id string) error {
	return shared.NewDomainError("UNKNOWN_COLUMN", "Unknown column: "+id)
}
