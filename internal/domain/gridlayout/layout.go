package gridlayout

import (
	"github.com/erp/workbench/internal/domain/shared"
	"github.com/google/uuid"
)

// GridLayout is a user's saved layout for one grid. There is at most one
// per (tenant, user, key); saving again overwrites it.
type GridLayout struct {
	shared.TenantAggregateRoot
	UserID uuid.UUID
	Key    GridKey
	State  LayoutState
}

// NewGridLayout creates a layout for the user's grid
func NewGridLayout(tenantID, userID uuid.UUID, key GridKey, state LayoutState) (*GridLayout, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User id cannot be empty")
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return &GridLayout{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		Key:                 key,
		State:               state,
	}, nil
}

// Replace overwrites the saved state
func (l *GridLayout) Replace(state LayoutState) {
	l.State = state
	l.IncrementVersion()
}

// Encode returns the wire form of the layout
func (l *GridLayout) Encode() (EncodedLayout, error) {
	return EncodeState(l.State)
}
