package gridlayout

import (
	"context"

	"github.com/google/uuid"
)

// LayoutRepository persists grid layouts
type LayoutRepository interface {
	// Find returns shared.ErrNotFound when the user has no saved layout
	Find(ctx context.Context, tenantID, userID uuid.UUID, key GridKey) (*GridLayout, error)
	// Save inserts or overwrites the layout for its (tenant, user, key)
	Save(ctx context.Context, layout *GridLayout) error
	// Delete removes the layout; shared.ErrNotFound when nothing was removed
	Delete(ctx context.Context, tenantID, userID uuid.UUID, key GridKey) error
	ListKeys(ctx context.Context, tenantID, userID uuid.UUID) ([]GridKey, error)
}

// LayoutCache is a read-through cache for decoded layouts
type LayoutCache interface {
	Get(ctx context.Context, tenantID, userID uuid.UUID, key GridKey) (*LayoutState, bool)
	Set(ctx context.Context, tenantID, userID uuid.UUID, key GridKey, state LayoutState) error
	Invalidate(ctx context.Context, tenantID, userID uuid.UUID, key GridKey) error
}
