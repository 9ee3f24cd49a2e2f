package settings

import (
	"context"

	"github.com/google/uuid"
)

// SettingRepository persists settings records
type SettingRepository interface {
	// Find returns shared.ErrNotFound when nothing is saved for the key
	Find(ctx context.Context, tenantID uuid.UUID, category Category, key string) (*SettingRecord, error)
	// Create inserts a record that was never saved. It returns
	// shared.ErrConcurrentEdit when the key was created in the meantime.
	Create(ctx context.Context, record *SettingRecord) error
	// Save writes a loaded record back, provided the stored row is still at
	// Version-1; otherwise it returns shared.ErrConcurrentEdit.
	Save(ctx context.Context, record *SettingRecord) error
	ListByCategory(ctx context.Context, tenantID uuid.UUID, category Category) ([]SettingRecord, error)
}
