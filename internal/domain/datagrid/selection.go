package datagrid

import (
	"maps"
	"slices"
)

// Selection is the set of selected rows keyed by row index in the
// unfiltered data set.
type Selection struct {
	selected map[int]bool
}

// NewSelection builds a selection from an index map; false entries are dropped
func NewSelection(from map[int]bool) *Selection {
	s := &Selection{selected: make(map[int]bool, len(from))}
	for i, v := range from {
		if v {
			s.selected[i] = true
		}
	}
	return s
}

// Set marks or unmarks index
func (s *Selection) Set(index int, selected bool) {
	if selected {
		s.selected[index] = true
		return
	}
	delete(s.selected, index)
}

// IsSelected reports whether index is selected
func (s *Selection) IsSelected(index int) bool {
	return s.selected[index]
}

// Sync drops indexes that no longer exist. An empty data set clears the
// selection entirely.
func (s *Selection) Sync(rowCount int) {
	if rowCount == 0 {
		s.Clear()
		return
	}
	maps.DeleteFunc(s.selected, func(i int, _ bool) bool {
		return i < 0 || i >= rowCount
	})
}

// Clear unselects everything
func (s *Selection) Clear() {
	clear(s.selected)
}

// Len returns the number of selected rows
func (s *Selection) Len() int {
	return len(s.selected)
}

// Indices returns the selected indexes in ascending order
func (s *Selection) Indices() []int {
	return slices.Sorted(maps.Keys(s.selected))
}
