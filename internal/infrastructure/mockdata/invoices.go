package mockdata

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/erp/workbench/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// payment terms in days
var paymentTerms = []int{0, 15, 30, 45, 60}

// SeedPurchaseInvoices stores n generated invoices for tenantID when the
// tenant has none. Roughly one posted invoice in four is linked to a debit
// note so that locked rows show up in the grid. Returns how many were created.
func SeedPurchaseInvoices(ctx context.Context, repo finance.PurchaseInvoiceRepository, tenantID uuid.UUID, n int, seed uint64, anchor time.Time) (int, error) {
	existing, err := repo.FindAll(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	f := gofakeit.New(seed)
	for i := range n {
		date := anchor.AddDate(0, 0, -f.Number(0, 180)).Truncate(24 * time.Hour)
		amount := decimal.New(int64(f.Number(10000, 5000000)), -2)
		inv, err := finance.NewPurchaseInvoice(tenantID, finance.InvoiceInput{
			InvoiceNumber: fmt.Sprintf("PI-%s-%04d", date.Format("200601"), i+1),
			SupplierName:  f.Company(),
			InvoiceDate:   date,
			DueDate:       date.AddDate(0, 0, pick(f, paymentTerms)),
			Amount:        amount,
			TaxAmount:     amount.Mul(decimal.NewFromFloat(0.11)).Round(2),
			Remark:        f.Sentence(6),
		})
		if err != nil {
			return i, err
		}
		if f.Number(1, 3) > 1 {
			_ = inv.Post()
			if f.Number(1, 4) == 1 {
				_ = inv.LinkDebitNote(int64(1000 + i))
			}
		}
		if err := repo.Create(ctx, inv); err != nil {
			return i, err
		}
	}
	return n, nil
}
