package gridlayout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abcColumns() Columns {
	return Columns{
		NewColumn("A", "Alpha", 120),
		NewColumn("B", "Beta", 0),
		NewColumn("C", "Gamma", 200),
	}
}

func TestDefaultState(t *testing.T) {
	st := DefaultState(abcColumns())

	assert.Equal(t, map[string]bool{"A": true, "B": true, "C": true}, st.Visibility)
	assert.Equal(t, []string{"A", "B", "C"}, st.Order)
	assert.Equal(t, map[string]int{"A": 120, "B": DefaultColumnWidth, "C": 200}, st.Sizes)
	assert.Empty(t, st.Sort)
}

func TestReconcile(t *testing.T) {
	t.Run("should ignore stale keys and default new columns to visible", func(t *testing.T) {
		persisted := &LayoutState{
			Visibility: map[string]bool{"A": false, "Z": false},
			Order:      []string{"Z", "C", "A"},
			Sizes:      map[string]int{"A": 80, "Z": 999},
			Sort:       []SortRule{{ColumnID: "Z"}, {ColumnID: "C", Desc: true}},
		}

		st := Reconcile(abcColumns(), persisted)

		assert.Equal(t, map[string]bool{"A": false, "B": true, "C": true}, st.Visibility)
		assert.Equal(t, []string{"C", "A", "B"}, st.Order)
		assert.Equal(t, map[string]int{"A": 80, "B": DefaultColumnWidth, "C": 200}, st.Sizes)
		assert.Equal(t, []SortRule{{ColumnID: "C", Desc: true}}, st.Sort)
	})

	t.Run("should drop duplicate order entries", func(t *testing.T) {
		st := Reconcile(abcColumns(), &LayoutState{Order: []string{"B", "B", "A"}})
		assert.Equal(t, []string{"B", "A", "C"}, st.Order)
	})

	t.Run("should keep non-hideable columns visible", func(t *testing.T) {
		cols := abcColumns()
		cols[0].Hideable = false
		st := Reconcile(cols, &LayoutState{Visibility: map[string]bool{"A": false}})
		assert.True(t, st.Visibility["A"])
	})

	t.Run("should clamp persisted widths", func(t *testing.T) {
		cols := abcColumns()
		cols[1].MinWidth = 60
		cols[1].MaxWidth = 300
		st := Reconcile(cols, &LayoutState{Sizes: map[string]int{"B": 10}})
		assert.Equal(t, 60, st.Sizes["B"])
	})

	t.Run("should drop sort on unsortable columns", func(t *testing.T) {
		cols := abcColumns()
		cols[2].Sortable = false
		st := Reconcile(cols, &LayoutState{Sort: []SortRule{{ColumnID: "C"}, {ColumnID: "A"}, {ColumnID: "A", Desc: true}}})
		assert.Equal(t, []SortRule{{ColumnID: "A"}}, st.Sort)
	})
}

func TestTableState_HiddenColumnRoundTrip(t *testing.T) {
	cols := abcColumns()
	st := DefaultState(cols)
	require.NoError(t, st.SetVisible("C", false))

	enc, err := EncodeState(st.Snapshot(true))
	require.NoError(t, err)
	decoded, err := DecodeState(enc)
	require.NoError(t, err)

	reloaded := Reconcile(cols, &decoded)
	assert.Equal(t, map[string]bool{"A": true, "B": true, "C": false}, reloaded.Visibility)
	assert.Equal(t, []string{"A", "B", "C"}, reloaded.Order)
}

func TestTableState_SnapshotRoundTrip(t *testing.T) {
	cols := abcColumns()
	st := DefaultState(cols)
	require.NoError(t, st.Move(2, 0))
	require.NoError(t, st.Resize("A", 333))
	require.NoError(t, st.SetVisible("B", false))
	st.SetSort([]SortRule{{ColumnID: "A", Desc: true}, {ColumnID: "C"}})

	want := st.Snapshot(true)
	enc, err := EncodeState(want)
	require.NoError(t, err)
	got, err := DecodeState(enc)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
	reloaded := Reconcile(cols, &got)
	if diff := cmp.Diff(want, reloaded.Snapshot(true)); diff != "" {
		t.Fatalf("reconciled layout mismatch (-want +got):\n%s", diff)
	}
}

func TestTableState_Mutations(t *testing.T) {
	t.Run("should move column by id", func(t *testing.T) {
		st := DefaultState(abcColumns())
		require.NoError(t, st.MoveColumn("A", 2))
		assert.Equal(t, []string{"B", "C", "A"}, st.Order)
	})

	t.Run("should reject unknown columns", func(t *testing.T) {
		st := DefaultState(abcColumns())
		assert.Error(t, st.MoveColumn("Z", 0))
		assert.Error(t, st.SetVisible("Z", false))
		assert.Error(t, st.Resize("Z", 10))
		assert.Error(t, st.Move(0, 3))
	})

	t.Run("should refuse hiding non-hideable columns", func(t *testing.T) {
		cols := abcColumns()
		cols[1].Hideable = false
		st := DefaultState(cols)
		assert.Error(t, st.SetVisible("B", false))
		assert.True(t, st.Visibility["B"])
	})

	t.Run("should list visible columns in display order", func(t *testing.T) {
		st := DefaultState(abcColumns())
		require.NoError(t, st.Move(0, 2))
		require.NoError(t, st.SetVisible("C", false))
		assert.Equal(t, []string{"B", "A"}, st.VisibleColumns().IDs())
	})

	t.Run("should save empty sort when sort is excluded", func(t *testing.T) {
		st := DefaultState(abcColumns())
		st.SetSort([]SortRule{{ColumnID: "A"}})
		assert.Empty(t, st.Snapshot(false).Sort)
		assert.Len(t, st.Snapshot(true).Sort, 1)
	})
}
