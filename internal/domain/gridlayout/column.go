package gridlayout

import (
	"github.com/erp/workbench/internal/domain/shared"
)

// DefaultColumnWidth is used when a column does not declare a width
const DefaultColumnWidth = 150

// Column describes one column of a grid. ID is the identity used by every
// persisted layout field.
type Column struct {
	ID       string `json:"id"`
	Header   string `json:"header"`
	Width    int    `json:"width"`
	MinWidth int    `json:"min_width,omitempty"`
	MaxWidth int    `json:"max_width,omitempty"`
	Hideable bool   `json:"hideable"`
	Sortable bool   `json:"sortable"`
}

// NewColumn returns a hideable, sortable column with the given default width
func NewColumn(id, header string, width int) Column {
	return Column{
		ID:       id,
		Header:   header,
		Width:    width,
		Hideable: true,
		Sortable: true,
	}
}

// DefaultWidth returns Width or DefaultColumnWidth when unset
func (c Column) DefaultWidth() int {
	if c.Width <= 0 {
		return DefaultColumnWidth
	}
	return c.Width
}

// ClampWidth keeps w within the column's min/max bounds
func (c Column) ClampWidth(w int) int {
	if c.MinWidth > 0 && w < c.MinWidth {
		return c.MinWidth
	}
	if c.MaxWidth > 0 && w > c.MaxWidth {
		return c.MaxWidth
	}
	if w <= 0 {
		return c.DefaultWidth()
	}
	return w
}

// Columns is an ordered column definition set
type Columns []Column

// Validate ensures ids are non-empty and unique
func (cs Columns) Validate() error {
	if len(cs) == 0 {
		return shared.NewDomainError("INVALID_COLUMNS", "Grid must define at least one column")
	}
	seen := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		if c.ID == "" {
			return shared.NewDomainError("INVALID_COLUMNS", "Column id cannot be empty")
		}
		if _, dup := seen[c.ID]; dup {
			return shared.NewDomainError("INVALID_COLUMNS", "Duplicate column id: "+c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// IDs returns the column ids in definition order
func (cs Columns) IDs() []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

// Find returns the column with the given id
func (cs Columns) Find(id string) (Column, bool) {
	for _, c := range cs {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

func (cs Columns) index() map[string]Column {
	m := make(map[string]Column, len(cs))
	for _, c := range cs {
		m[c.ID] = c
	}
	return m
}
