package mockdata

import (
	"context"
	"testing"
	"time"

	"github.com/erp/workbench/internal/domain/finance"
	"github.com/erp/workbench/internal/domain/hr"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var anchor = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

func TestEmployeeDirectory(t *testing.T) {
	ctx := context.Background()

	t.Run("should be deterministic for a seed", func(t *testing.T) {
		a, err := NewEmployeeDirectory(7, 40, anchor).List(ctx)
		require.NoError(t, err)
		b, err := NewEmployeeDirectory(7, 40, anchor).List(ctx)
		require.NoError(t, err)

		require.Len(t, a, 40)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("directories differ (-a +b):\n%s", diff)
		}
	})

	t.Run("should generate valid rows", func(t *testing.T) {
		rows, err := NewEmployeeDirectory(11, 60, anchor).List(ctx)
		require.NoError(t, err)

		codes := map[string]bool{}
		for _, e := range rows {
			assert.NotEmpty(t, e.Name)
			assert.Contains(t, Departments, e.Department)
			assert.Contains(t, []hr.EmploymentStatus{hr.StatusActive, hr.StatusOnLeave, hr.StatusTerminated}, e.Status)
			assert.True(t, e.JoinedAt.Before(anchor))
			assert.True(t, e.Salary.IsPositive())
			assert.False(t, codes[e.Code], "duplicate code %s", e.Code)
			codes[e.Code] = true
		}
	})

	t.Run("should return copies", func(t *testing.T) {
		d := NewEmployeeDirectory(3, 2, anchor)
		first, _ := d.List(ctx)
		first[0].Name = "changed"
		second, _ := d.List(ctx)
		assert.NotEqual(t, "changed", second[0].Name)
	})

	t.Run("should honour a cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewEmployeeDirectory(3, 2, anchor).List(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCashBook(t *testing.T) {
	book := NewCashBook(5, 30, anchor)
	ctx := context.Background()

	cash, err := book.CashEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, cash, 30)
	for _, e := range cash {
		assert.False(t, e.Amount.IsZero())
		assert.False(t, e.Date.After(anchor))
	}

	receivables, err := book.Receivables(ctx)
	require.NoError(t, err)
	assert.Len(t, receivables, 15)
	for _, r := range receivables {
		assert.NotEmpty(t, r.Customer)
		assert.True(t, r.Balance.IsPositive())
	}
}

type mockInvoiceRepo struct {
	mock.Mock
	finance.PurchaseInvoiceRepository
}

func (m *mockInvoiceRepo) FindAll(ctx context.Context, tenantID uuid.UUID) ([]finance.PurchaseInvoice, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]finance.PurchaseInvoice), args.Error(1)
}

func (m *mockInvoiceRepo) Create(ctx context.Context, inv *finance.PurchaseInvoice) error {
	return m.Called(ctx, inv).Error(0)
}

func TestSeedPurchaseInvoices(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("should seed an empty tenant", func(t *testing.T) {
		repo := new(mockInvoiceRepo)
		repo.On("FindAll", ctx, tenantID).Return([]finance.PurchaseInvoice{}, nil)

		var saved []*finance.PurchaseInvoice
		repo.On("Create", ctx, mock.AnythingOfType("*finance.PurchaseInvoice")).
			Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(*finance.PurchaseInvoice)) }).
			Return(nil)

		n, err := SeedPurchaseInvoices(ctx, repo, tenantID, 25, 9, anchor)
		require.NoError(t, err)
		assert.Equal(t, 25, n)
		require.Len(t, saved, 25)
		for _, inv := range saved {
			assert.Equal(t, tenantID, inv.TenantID)
			assert.False(t, inv.DueDate.Before(inv.InvoiceDate))
			if inv.IsLinked() {
				assert.Equal(t, finance.InvoiceStatusPosted, inv.Status)
			}
		}
	})

	t.Run("should leave a populated tenant alone", func(t *testing.T) {
		repo := new(mockInvoiceRepo)
		repo.On("FindAll", ctx, tenantID).Return([]finance.PurchaseInvoice{{InvoiceNumber: "X"}}, nil)

		n, err := SeedPurchaseInvoices(ctx, repo, tenantID, 25, 9, anchor)
		require.NoError(t, err)
		assert.Zero(t, n)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
