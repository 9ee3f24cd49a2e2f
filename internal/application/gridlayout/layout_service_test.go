package gridlayout

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/domain/shared"
	"github.com/erp/workbench/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLayoutRepo struct {
	mock.Mock
}

func (m *mockLayoutRepo) Find(ctx context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey) (*gridlayout.GridLayout, error) {
	args := m.Called(ctx, tenantID, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gridlayout.GridLayout), args.Error(1)
}

func (m *mockLayoutRepo) Save(ctx context.Context, layout *gridlayout.GridLayout) error {
	return m.Called(ctx, layout).Error(0)
}

func (m *mockLayoutRepo) Delete(ctx context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey) error {
	return m.Called(ctx, tenantID, userID, key).Error(0)
}

func (m *mockLayoutRepo) ListKeys(ctx context.Context, tenantID, userID uuid.UUID) ([]gridlayout.GridKey, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gridlayout.GridKey), args.Error(1)
}

// memoryRepo is a tiny in-memory repository for round-trip tests
type memoryRepo struct {
	layouts map[string]*gridlayout.GridLayout
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{layouts: map[string]*gridlayout.GridLayout{}}
}

func memKey(userID uuid.UUID, key gridlayout.GridKey) string {
	return userID.String() + "/" + key.String()
}

func (r *memoryRepo) Find(_ context.Context, _, userID uuid.UUID, key gridlayout.GridKey) (*gridlayout.GridLayout, error) {
	l, ok := r.layouts[memKey(userID, key)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memoryRepo) Save(_ context.Context, layout *gridlayout.GridLayout) error {
	cp := *layout
	r.layouts[memKey(layout.UserID, layout.Key)] = &cp
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, _, userID uuid.UUID, key gridlayout.GridKey) error {
	k := memKey(userID, key)
	if _, ok := r.layouts[k]; !ok {
		return shared.ErrNotFound
	}
	delete(r.layouts, k)
	return nil
}

func (r *memoryRepo) ListKeys(_ context.Context, _, _ uuid.UUID) ([]gridlayout.GridKey, error) {
	keys := make([]gridlayout.GridKey, 0, len(r.layouts))
	for _, l := range r.layouts {
		keys = append(keys, l.Key)
	}
	return keys, nil
}

var testColumns = gridlayout.Columns{
	gridlayout.NewColumn("A", "Alpha", 100),
	gridlayout.NewColumn("B", "Beta", 120),
	gridlayout.NewColumn("C", "Gamma", 0),
}

func testOwner() Owner {
	return Owner{TenantID: uuid.New(), UserID: uuid.New()}
}

func testKey(t *testing.T) gridlayout.GridKey {
	t.Helper()
	k, err := gridlayout.NewGridKey(3, 17, "purchaseInvoice")
	require.NoError(t, err)
	return k
}

func TestLayoutService_Load(t *testing.T) {
	ctx := context.Background()
	key := testKey(t)

	t.Run("should serve defaults when nothing is saved", func(t *testing.T) {
		repo := new(mockLayoutRepo)
		owner := testOwner()
		repo.On("Find", mock.Anything, owner.TenantID, owner.UserID, key).Return(nil, shared.ErrNotFound)

		view := NewLayoutService(repo).Load(ctx, owner, key, testColumns)

		assert.False(t, view.Persisted)
		assert.Equal(t, []string{"A", "B", "C"}, view.State.Order)
		assert.Equal(t, map[string]bool{"A": true, "B": true, "C": true}, view.State.Visibility)
		assert.Equal(t, gridlayout.DefaultColumnWidth, view.State.Sizes["C"])
		assert.Empty(t, view.Encoded.ColOrder)
	})

	t.Run("should fall back silently on storage errors", func(t *testing.T) {
		repo := new(mockLayoutRepo)
		owner := testOwner()
		repo.On("Find", mock.Anything, owner.TenantID, owner.UserID, key).
			Return(nil, errors.New("layout 3:17:purchaseInvoice: decode grdColSize: invalid JSON"))

		view := NewLayoutService(repo).Load(ctx, owner, key, testColumns)

		assert.False(t, view.Persisted)
		assert.Equal(t, gridlayout.DefaultState(testColumns).Order, view.State.Order)
	})

	t.Run("should serve from cache without touching the repository", func(t *testing.T) {
		repo := new(mockLayoutRepo)
		owner := testOwner()
		c := cache.NewInMemoryLayoutCache(0)
		defer c.Close()
		require.NoError(t, c.Set(ctx, owner.TenantID, owner.UserID, key, gridlayout.LayoutState{
			Order: []string{"C", "A", "B"},
		}))

		view := NewLayoutService(repo, WithCache(c)).Load(ctx, owner, key, testColumns)

		assert.True(t, view.Persisted)
		assert.Equal(t, []string{"C", "A", "B"}, view.State.Order)
		repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// racingCache runs onSet once before the first write reaches the cache
type racingCache struct {
	gridlayout.LayoutCache
	onSet func()
}

func (c *racingCache) Set(ctx context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey, state gridlayout.LayoutState) error {
	if c.onSet != nil {
		hook := c.onSet
		c.onSet = nil
		hook()
	}
	return c.LayoutCache.Set(ctx, tenantID, userID, key, state)
}

func TestLayoutService_CacheFill(t *testing.T) {
	ctx := context.Background()
	key := testKey(t)

	t.Run("should not keep a state saved over while loading", func(t *testing.T) {
		inner := cache.NewInMemoryLayoutCache(0)
		defer inner.Close()
		c := &racingCache{LayoutCache: inner}
		repo := newMemoryRepo()
		svc := NewLayoutService(repo, WithCache(c))
		owner := testOwner()

		_, err := svc.Save(ctx, owner, key, testColumns, SaveLayoutRequest{Order: []string{"B", "A", "C"}})
		require.NoError(t, err)

		c.onSet = func() {
			_, err := svc.Save(ctx, owner, key, testColumns, SaveLayoutRequest{Order: []string{"C", "B", "A"}})
			require.NoError(t, err)
		}
		// the in-flight load still answers with what it read
		assert.Equal(t, []string{"B", "A", "C"}, svc.Load(ctx, owner, key, testColumns).State.Order)

		_, cached := inner.Get(ctx, owner.TenantID, owner.UserID, key)
		assert.False(t, cached)
		assert.Equal(t, []string{"C", "B", "A"}, svc.Load(ctx, owner, key, testColumns).State.Order)
	})

	t.Run("should not keep a state reset while loading", func(t *testing.T) {
		inner := cache.NewInMemoryLayoutCache(0)
		defer inner.Close()
		c := &racingCache{LayoutCache: inner}
		svc := NewLayoutService(newMemoryRepo(), WithCache(c))
		owner := testOwner()

		_, err := svc.Save(ctx, owner, key, testColumns, SaveLayoutRequest{Order: []string{"B", "A", "C"}})
		require.NoError(t, err)

		c.onSet = func() {
			_, err := svc.Reset(ctx, owner, key, testColumns)
			require.NoError(t, err)
		}
		svc.Load(ctx, owner, key, testColumns)

		view := svc.Load(ctx, owner, key, testColumns)
		assert.False(t, view.Persisted)
		assert.Equal(t, []string{"A", "B", "C"}, view.State.Order)
	})

	t.Run("should not keep a state reset and saved again while loading", func(t *testing.T) {
		inner := cache.NewInMemoryLayoutCache(0)
		defer inner.Close()
		c := &racingCache{LayoutCache: inner}
		svc := NewLayoutService(newMemoryRepo(), WithCache(c))
		owner := testOwner()

		_, err := svc.Save(ctx, owner, key, testColumns, SaveLayoutRequest{Order: []string{"B", "A", "C"}})
		require.NoError(t, err)

		c.onSet = func() {
			_, err := svc.Reset(ctx, owner, key, testColumns)
			require.NoError(t, err)
			_, err = svc.Save(ctx, owner, key, testColumns, SaveLayoutRequest{Order: []string{"C", "A", "B"}})
			require.NoError(t, err)
		}
		svc.Load(ctx, owner, key, testColumns)

		assert.Equal(t, []string{"C", "A", "B"}, svc.Load(ctx, owner, key, testColumns).State.Order)
	})

	t.Run("should keep the cached state when nothing changed", func(t *testing.T) {
		inner := cache.NewInMemoryLayoutCache(0)
		defer inner.Close()
		svc := NewLayoutService(newMemoryRepo(), WithCache(inner))
		owner := testOwner()

		_, err := svc.Save(ctx, owner, key, testColumns, SaveLayoutRequest{Order: []string{"B", "A", "C"}})
		require.NoError(t, err)
		svc.Load(ctx, owner, key, testColumns)

		st, cached := inner.Get(ctx, owner.TenantID, owner.UserID, key)
		require.True(t, cached)
		assert.Equal(t, []string{"B", "A", "C"}, st.Order)
	})
}

func TestLayoutService_SaveAndReload(t *testing.T) {
	ctx := context.Background()
	key := testKey(t)

	t.Run("should reload exactly what was saved", func(t *testing.T) {
		svc := NewLayoutService(newMemoryRepo())
		owner := testOwner()

		_, err := svc.Save(ctx, owner, key, testColumns, SaveLayoutRequest{
			Visibility:  map[string]bool{"A": true, "B": true, "C": false},
			Order:       []string{"A", "B", "C"},
			Sizes:       map[string]int{"A": 90, "B": 120, "C": 150},
			Sort:        []gridlayout.SortRule{{ColumnID: "B", Desc: true}},
			IncludeSort: true,
		})
		require.NoError(t, err)

		view := svc.Load(ctx, owner, key, testColumns)
		assert.True(t, view.Persisted)
		assert.Equal(t, map[string]bool{"A": true, "B": true, "C": false}, view.State.Visibility)
		assert.Equal(t, []string{"A", "B", "C"}, view.State.Order)
		assert.Equal(t, map[string]int{"A": 90, "B": 120, "C": 150}, view.State.Sizes)
		assert.Equal(t, []gridlayout.SortRule{{ColumnID: "B", Desc: true}}, view.State.Sort)
		assert.Equal(t, `{"A":true,"B":true,"C":false}`, view.Encoded.ColVisible)
	})

	t.Run("should drop sort when not requested", func(t *testing.T) {
		svc := NewLayoutService(newMemoryRepo())
		owner := testOwner()

		view, err := svc.Save(ctx, owner, key, testColumns, SaveLayoutRequest{
			Sort: []gridlayout.SortRule{{ColumnID: "A"}},
		})
		require.NoError(t, err)
		assert.Empty(t, view.State.Sort)
		assert.Equal(t, "[]", view.Encoded.Sort)
	})

	t.Run("should invalidate the cache on save", func(t *testing.T) {
		c := cache.NewInMemoryLayoutCache(0)
		defer c.Close()
		svc := NewLayoutService(newMemoryRepo(), WithCache(c))
		owner := testOwner()

		svc.Load(ctx, owner, key, testColumns)
		_, err := svc.Save(ctx, owner, key, testColumns, SaveLayoutRequest{Order: []string{"B", "A", "C"}})
		require.NoError(t, err)

		assert.Equal(t, []string{"B", "A", "C"}, svc.Load(ctx, owner, key, testColumns).State.Order)
	})

	t.Run("should propagate repository save errors", func(t *testing.T) {
		repo := new(mockLayoutRepo)
		owner := testOwner()
		repo.On("Find", mock.Anything, owner.TenantID, owner.UserID, key).Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

		_, err := NewLayoutService(repo).Save(ctx, owner, key, testColumns, SaveLayoutRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestLayoutService_Move(t *testing.T) {
	ctx := context.Background()
	key := testKey(t)
	svc := NewLayoutService(newMemoryRepo())
	owner := testOwner()

	t.Run("should move one column and keep the others in order", func(t *testing.T) {
		view, err := svc.Move(ctx, owner, key, testColumns, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C", "A"}, view.State.Order)
		assert.Equal(t, []string{"B", "C", "A"}, svc.Load(ctx, owner, key, testColumns).State.Order)
	})

	t.Run("should reject positions out of range", func(t *testing.T) {
		_, err := svc.Move(ctx, owner, key, testColumns, 0, 9)
		require.Error(t, err)
	})
}

func TestLayoutService_Reset(t *testing.T) {
	ctx := context.Background()
	key := testKey(t)

	t.Run("should restore defaults after a save", func(t *testing.T) {
		svc := NewLayoutService(newMemoryRepo())
		owner := testOwner()
		_, err := svc.Save(ctx, owner, key, testColumns, SaveLayoutRequest{
			Visibility: map[string]bool{"A": false},
			Sizes:      map[string]int{"A": 300},
		})
		require.NoError(t, err)

		view, err := svc.Reset(ctx, owner, key, testColumns)
		require.NoError(t, err)
		assert.False(t, view.Persisted)
		assert.True(t, view.State.Visibility["A"])
		assert.Equal(t, 100, view.State.Sizes["A"])

		reloaded := svc.Load(ctx, owner, key, testColumns)
		assert.False(t, reloaded.Persisted)
	})

	t.Run("should treat a missing layout as already reset", func(t *testing.T) {
		_, err := NewLayoutService(newMemoryRepo()).Reset(ctx, testOwner(), key, testColumns)
		assert.NoError(t, err)
	})

	t.Run("should surface other delete errors", func(t *testing.T) {
		repo := new(mockLayoutRepo)
		repo.On("Delete", mock.Anything, mock.Anything, mock.Anything, key).Return(errors.New("db down"))

		_, err := NewLayoutService(repo).Reset(ctx, testOwner(), key, testColumns)
		assert.Error(t, err)
	})
}

func TestLayoutService_ListForUser(t *testing.T) {
	ctx := context.Background()
	repo := new(mockLayoutRepo)
	owner := testOwner()
	keys := []gridlayout.GridKey{{ModuleID: 1, TransactionID: 2, GridName: "g"}}
	repo.On("ListKeys", mock.Anything, owner.TenantID, owner.UserID).Return(keys, nil)

	got, err := NewLayoutService(repo).ListForUser(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, keys, got)
	assert.Equal(t, []KeyResponse{{ModuleID: 1, TransactionID: 2, GridName: "g"}}, ToKeyResponses(got))
}

func TestRegistry(t *testing.T) {
	invoices := gridlayout.GridKey{ModuleID: 3, TransactionID: 21, GridName: "invoices"}
	employees := gridlayout.GridKey{ModuleID: 5, TransactionID: 1, GridName: "employees"}

	t.Run("should resolve registered keys", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(invoices, testColumns))
		require.NoError(t, r.Register(employees, testColumns[:1]))

		cols, err := r.Columns(invoices)
		require.NoError(t, err)
		assert.Len(t, cols, 3)
		assert.Equal(t, []gridlayout.GridKey{invoices, employees}, r.Keys())
	})

	t.Run("should reject invalid definitions", func(t *testing.T) {
		r := NewRegistry()
		require.Error(t, r.Register(invoices, gridlayout.Columns{}))
		require.Error(t, r.Register(gridlayout.GridKey{ModuleID: 3, TransactionID: 21}, testColumns))
		assert.Empty(t, r.Keys())
	})

	t.Run("should not resolve a grid name under another module or transaction", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(invoices, testColumns))

		for _, k := range []gridlayout.GridKey{
			{ModuleID: 999, TransactionID: 21, GridName: "invoices"},
			{ModuleID: 3, TransactionID: 7, GridName: "invoices"},
			{ModuleID: 3, TransactionID: 21, GridName: "missing"},
		} {
			_, err := r.Columns(k)
			assert.ErrorIs(t, err, ErrUnknownGrid, k.String())
		}
	})
}
