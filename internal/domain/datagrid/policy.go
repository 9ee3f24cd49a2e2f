package datagrid

// RowActions are the per-row buttons a grid may offer
type RowActions struct {
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
	View   bool `json:"view"`
	Select bool `json:"select"`
}

// ActionPolicy derives row actions from the row itself
type ActionPolicy[T any] struct {
	// LockedBy reports rows that must not be mutated. Nil means no row is locked.
	LockedBy func(T) bool
}

// Locked reports whether row is locked
func (p ActionPolicy[T]) Locked(row T) bool {
	return p.LockedBy != nil && p.LockedBy(row)
}

// Actions returns the enabled actions for row. A locked row can still be
// viewed but never edited, deleted or selected.
func (p ActionPolicy[T]) Actions(row T) RowActions {
	if p.Locked(row) {
		return RowActions{View: true}
	}
	return RowActions{Edit: true, Delete: true, View: true, Select: true}
}

// LinkedDocument locks rows whose foreign key is present and positive, for
// example an invoice already settled through a debit note.
func LinkedDocument[T any](ref func(T) *int64) func(T) bool {
	return func(row T) bool {
		id := ref(row)
		return id != nil && *id > 0
	}
}
