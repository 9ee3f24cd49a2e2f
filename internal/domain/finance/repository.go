package finance

import (
	"context"

	"github.com/google/uuid"
)

// PurchaseInvoiceRepository persists purchase invoices
type PurchaseInvoiceRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseInvoice, error)
	// FindAll returns the tenant's invoices in a stable order (invoice date, then creation)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]PurchaseInvoice, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]PurchaseInvoice, error)
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, invoice *PurchaseInvoice) error
	// Save writes a loaded invoice back. It expects the stored row to still
	// be at Version-1 and returns shared.ErrConcurrentEdit otherwise.
	Save(ctx context.Context, invoice *PurchaseInvoice) error
	// Delete and DeleteMany never remove a linked invoice; they return
	// shared.ErrLinkedDocument instead. DeleteMany removes all ids or none.
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteMany(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int64, error)
}
