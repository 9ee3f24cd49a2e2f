package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/domain/shared"
	"github.com/erp/workbench/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGridLayoutRepository implements gridlayout.LayoutRepository using GORM
type GormGridLayoutRepository struct {
	db *gorm.DB
}

// NewGormGridLayoutRepository creates a new GormGridLayoutRepository
func NewGormGridLayoutRepository(db *gorm.DB) *GormGridLayoutRepository {
	return &GormGridLayoutRepository{db: db}
}

func (r *GormGridLayoutRepository) owner(ctx context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.GridLayoutModel{}).
		Where("tenant_id = ? AND user_id = ? AND module_id = ? AND transaction_id = ? AND grid_name = ?",
			tenantID, userID, key.ModuleID, key.TransactionID, key.GridName)
}

// Find loads and decodes the saved layout
func (r *GormGridLayoutRepository) Find(ctx context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey) (*gridlayout.GridLayout, error) {
	var model models.GridLayoutModel
	if err := r.owner(ctx, tenantID, userID, key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	layout, err := model.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", key, err)
	}
	return layout, nil
}

// Save upserts on (tenant, user, module, transaction, grid). Last write wins.
func (r *GormGridLayoutRepository) Save(ctx context.Context, layout *gridlayout.GridLayout) error {
	model, err := models.GridLayoutModelFromDomain(layout)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tenant_id"}, {Name: "user_id"}, {Name: "module_id"},
			{Name: "transaction_id"}, {Name: "grid_name"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"grd_col_visible", "grd_col_order", "grd_col_size", "grd_sort", "version", "updated_at",
		}),
	}).Create(model).Error
}

// Delete removes the saved layout
func (r *GormGridLayoutRepository) Delete(ctx context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey) error {
	result := r.owner(ctx, tenantID, userID, key).Delete(&models.GridLayoutModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListKeys returns the keys of every layout the user has saved
func (r *GormGridLayoutRepository) ListKeys(ctx context.Context, tenantID, userID uuid.UUID) ([]gridlayout.GridKey, error) {
	var rows []models.GridLayoutModel
	err := r.db.WithContext(ctx).
		Select("module_id", "transaction_id", "grid_name").
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("module_id, transaction_id, grid_name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	keys := make([]gridlayout.GridKey, len(rows))
	for i := range rows {
		keys[i] = rows[i].Key()
	}
	return keys, nil
}

var _ gridlayout.LayoutRepository = (*GormGridLayoutRepository)(nil)
