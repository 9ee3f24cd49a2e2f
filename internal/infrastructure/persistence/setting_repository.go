package persistence

import (
	"context"
	"errors"

	"github.com/erp/workbench/internal/domain/settings"
	"github.com/erp/workbench/internal/domain/shared"
	"github.com/erp/workbench/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingRepository implements settings.SettingRepository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Find returns the record for (tenant, category, key)
func (r *GormSettingRepository) Find(ctx context.Context, tenantID uuid.UUID, category settings.Category, key string) (*settings.SettingRecord, error) {
	var model models.SettingRecordModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND category = ? AND setting_key = ?", tenantID, string(category), key).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a record that was never saved before
func (r *GormSettingRepository) Create(ctx context.Context, record *settings.SettingRecord) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "category"}, {Name: "setting_key"}},
		DoNothing: true,
	}).Create(models.SettingRecordModelFromDomain(record))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentEdit
	}
	return nil
}

// Save updates a record with optimistic locking on its version
func (r *GormSettingRepository) Save(ctx context.Context, record *settings.SettingRecord) error {
	model := models.SettingRecordModelFromDomain(record)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("tenant_id = ? AND id = ? AND version = ?", record.TenantID, record.ID, record.Version-1).
		Select("payload", "locked", "locked_by", "locked_at", "updated_by", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentEdit
	}
	return nil
}

// ListByCategory returns the tenant's records of one category ordered by key
func (r *GormSettingRepository) ListByCategory(ctx context.Context, tenantID uuid.UUID, category settings.Category) ([]settings.SettingRecord, error) {
	var rows []models.SettingRecordModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND category = ?", tenantID, string(category)).
		Order("setting_key").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	records := make([]settings.SettingRecord, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, nil
}

var _ settings.SettingRepository = (*GormSettingRepository)(nil)
