package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/workbench/internal/domain/dashboard"
	"github.com/erp/workbench/internal/domain/finance"
	"github.com/erp/workbench/internal/domain/hr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinance struct {
	cash        []dashboard.CashEntry
	receivables []dashboard.Receivable
	err         error
}

func (f fakeFinance) CashEntries(context.Context) ([]dashboard.CashEntry, error) {
	return f.cash, f.err
}

func (f fakeFinance) Receivables(ctx context.Context) ([]dashboard.Receivable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.receivables, nil
}

type invoiceLister struct {
	finance.PurchaseInvoiceRepository
	invoices []finance.PurchaseInvoice
}

func (l invoiceLister) FindAll(context.Context, uuid.UUID) ([]finance.PurchaseInvoice, error) {
	return l.invoices, nil
}

type fakeDirectory []hr.Employee

func (d fakeDirectory) List(context.Context) ([]hr.Employee, error) { return d, nil }

func invoice(amount int64, status finance.InvoiceStatus) finance.PurchaseInvoice {
	return finance.PurchaseInvoice{
		Amount:    decimal.NewFromInt(amount),
		TaxAmount: decimal.Zero,
		Status:    status,
	}
}

func TestService_Panels(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	tenantID := uuid.New()

	t.Run("should reduce every source", func(t *testing.T) {
		svc := NewService(
			fakeFinance{
				cash: []dashboard.CashEntry{
					{Date: asOf, Amount: decimal.NewFromInt(100)},
					{Date: asOf, Amount: decimal.NewFromInt(-40)},
				},
				receivables: []dashboard.Receivable{
					{Customer: "A", DueDate: asOf.AddDate(0, 0, -10), Balance: decimal.NewFromInt(50)},
					{Customer: "B", DueDate: asOf.AddDate(0, 0, -100), Balance: decimal.NewFromInt(25)},
				},
			},
			invoiceLister{invoices: []finance.PurchaseInvoice{
				invoice(10, finance.InvoiceStatusDraft),
				invoice(30, finance.InvoiceStatusPosted),
				invoice(999, finance.InvoiceStatusCancelled),
			}},
			fakeDirectory{
				{ID: "1", Department: "Sales", Status: hr.StatusActive, Salary: decimal.NewFromInt(10)},
				{ID: "2", Department: "Sales", Status: hr.StatusTerminated, Salary: decimal.NewFromInt(10)},
			},
		)
		svc.now = func() time.Time { return asOf }

		panels, err := svc.Panels(context.Background(), tenantID)
		require.NoError(t, err)

		assert.Equal(t, asOf, panels.AsOf)
		assert.True(t, panels.CashFlow.Net.Equal(decimal.NewFromInt(60)))
		assert.True(t, panels.Aging.Total.Equal(decimal.NewFromInt(75)))
		assert.Equal(t, 2, panels.InvoiceAmounts.Count)
		assert.True(t, panels.InvoiceAmounts.Total.Equal(decimal.NewFromInt(40)))
		assert.Equal(t, 1, panels.Headcount.Total)
	})

	t.Run("should fail when a source fails", func(t *testing.T) {
		svc := NewService(fakeFinance{err: errors.New("ledger offline")}, invoiceLister{}, fakeDirectory{})

		_, err := svc.Panels(context.Background(), tenantID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cash entries")
		assert.Contains(t, err.Error(), "ledger offline")
	})
}
