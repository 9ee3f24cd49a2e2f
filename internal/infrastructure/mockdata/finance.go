package mockdata

import (
	"context"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/erp/workbench/internal/domain/dashboard"
	"github.com/shopspring/decimal"
)

// CashBook generates cash movements and open receivables for the dashboard
type CashBook struct {
	seed    uint64
	entries int
	anchor  time.Time

	once        sync.Once
	cash        []dashboard.CashEntry
	receivables []dashboard.Receivable
}

// NewCashBook creates a generator of n cash entries and n/2 receivables
// dated in the 120 days before anchor.
func NewCashBook(seed uint64, n int, anchor time.Time) *CashBook {
	return &CashBook{seed: seed, entries: n, anchor: anchor}
}

// CashEntries returns the generated cash movements
func (b *CashBook) CashEntries(ctx context.Context) ([]dashboard.CashEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.once.Do(b.generate)
	return append([]dashboard.CashEntry(nil), b.cash...), nil
}

// Receivables returns the generated open customer balances
func (b *CashBook) Receivables(ctx context.Context) ([]dashboard.Receivable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.once.Do(b.generate)
	return append([]dashboard.Receivable(nil), b.receivables...), nil
}

func (b *CashBook) generate() {
	f := gofakeit.New(b.seed)

	b.cash = make([]dashboard.CashEntry, b.entries)
	for i := range b.cash {
		cents := int64(f.Number(1000, 500000))
		if f.Bool() {
			cents = -cents
		}
		b.cash[i] = dashboard.CashEntry{
			Date:   b.anchor.AddDate(0, 0, -f.Number(0, 120)),
			Amount: decimal.New(cents, -2),
		}
	}

	b.receivables = make([]dashboard.Receivable, b.entries/2)
	for i := range b.receivables {
		b.receivables[i] = dashboard.Receivable{
			Customer: f.Company(),
			DueDate:  b.anchor.AddDate(0, 0, -f.Number(-30, 150)),
			Balance:  decimal.New(int64(f.Number(5000, 2000000)), -2),
		}
	}
}
