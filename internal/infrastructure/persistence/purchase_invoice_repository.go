package persistence

import (
	"context"
	"errors"

	"github.com/erp/workbench/internal/domain/finance"
	"github.com/erp/workbench/internal/domain/shared"
	"github.com/erp/workbench/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseInvoiceRepository implements finance.PurchaseInvoiceRepository using GORM
type GormPurchaseInvoiceRepository struct {
	db *gorm.DB
}

// NewGormPurchaseInvoiceRepository creates a new GormPurchaseInvoiceRepository
func NewGormPurchaseInvoiceRepository(db *gorm.DB) *GormPurchaseInvoiceRepository {
	return &GormPurchaseInvoiceRepository{db: db}
}

// FindByID finds an invoice within a tenant
func (r *GormPurchaseInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.PurchaseInvoice, error) {
	var model models.PurchaseInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every invoice of the tenant. The order is stable so that
// row indexes held by a client keep pointing at the same invoices.
func (r *GormPurchaseInvoiceRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]finance.PurchaseInvoice, error) {
	var rows []models.PurchaseInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("invoice_date, created_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// FindByIDs finds the tenant's invoices with the given ids
func (r *GormPurchaseInvoiceRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]finance.PurchaseInvoice, error) {
	if len(ids) == 0 {
		return []finance.PurchaseInvoice{}, nil
	}
	var rows []models.PurchaseInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("invoice_date, created_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// ExistsByNumber reports whether another invoice of the tenant uses number
func (r *GormPurchaseInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PurchaseInvoiceModel{}).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, number)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new invoice
func (r *GormPurchaseInvoiceRepository) Create(ctx context.Context, invoice *finance.PurchaseInvoice) error {
	return r.db.WithContext(ctx).Create(models.PurchaseInvoiceModelFromDomain(invoice)).Error
}

// Save updates an invoice with optimistic locking on its version
func (r *GormPurchaseInvoiceRepository) Save(ctx context.Context, invoice *finance.PurchaseInvoice) error {
	model := models.PurchaseInvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("tenant_id = ? AND id = ? AND version = ?", invoice.TenantID, invoice.ID, invoice.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentEdit
	}
	return nil
}

// unlinked restricts a query to invoices no debit note references
const unlinked = "(debit_note_id IS NULL OR debit_note_id <= 0)"

// Delete removes one invoice unless a debit note references it
func (r *GormPurchaseInvoiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	result := db.
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Where(unlinked).
		Delete(&models.PurchaseInvoiceModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrLinked(db, tenantID, []uuid.UUID{id})
	}
	return nil
}

// DeleteMany removes the given invoices in one transaction. When any of
// them is linked or gone nothing is deleted.
func (r *GormPurchaseInvoiceRepository) DeleteMany(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("tenant_id = ? AND id IN ?", tenantID, ids).
			Where(unlinked).
			Delete(&models.PurchaseInvoiceModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			return r.missingOrLinked(tx, tenantID, ids)
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// missingOrLinked explains why a guarded delete matched fewer rows than asked
func (r *GormPurchaseInvoiceRepository) missingOrLinked(db *gorm.DB, tenantID uuid.UUID, ids []uuid.UUID) error {
	var linked int64
	if err := db.Model(&models.PurchaseInvoiceModel{}).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Where("debit_note_id > 0").
		Count(&linked).Error; err != nil {
		return err
	}
	if linked > 0 {
		return shared.ErrLinkedDocument
	}
	return shared.ErrNotFound
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func toInvoices(rows []models.PurchaseInvoiceModel) []finance.PurchaseInvoice {
	out := make([]finance.PurchaseInvoice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ finance.PurchaseInvoiceRepository = (*GormPurchaseInvoiceRepository)(nil)
