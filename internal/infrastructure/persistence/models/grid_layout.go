package models

import (
	"fmt"

	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/google/uuid"
)

// GridLayoutModel stores a layout as the four wire strings the grid client
// exchanges, so a row can be inspected or patched without decoding.
type GridLayoutModel struct {
	TenantAggregateModel
	UserID        uuid.UUID `gorm:"type:uuid;not null"`
	ModuleID      int64     `gorm:"not null"`
	TransactionID int64     `gorm:"not null"`
	GridName      string    `gorm:"type:varchar(100);not null"`
	ColVisible    string    `gorm:"column:grd_col_visible;type:text;not null"`
	ColOrder      string    `gorm:"column:grd_col_order;type:text;not null"`
	ColSize       string    `gorm:"column:grd_col_size;type:text;not null"`
	Sort          string    `gorm:"column:grd_sort;type:text;not null"`
}

// TableName returns the table name for GORM
func (GridLayoutModel) TableName() string {
	return "grid_layouts"
}

// GridLayoutModelFromDomain encodes a layout for storage
func GridLayoutModelFromDomain(l *gridlayout.GridLayout) (*GridLayoutModel, error) {
	enc, err := l.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode layout %s: %w", l.Key, err)
	}
	m := &GridLayoutModel{
		UserID:        l.UserID,
		ModuleID:      l.Key.ModuleID,
		TransactionID: l.Key.TransactionID,
		GridName:      l.Key.GridName,
		ColVisible:    enc.ColVisible,
		ColOrder:      enc.ColOrder,
		ColSize:       enc.ColSize,
		Sort:          enc.Sort,
	}
	m.TenantAggregateModel.FromDomain(l.TenantAggregateRoot)
	return m, nil
}

// Key returns the grid key of the row
func (m *GridLayoutModel) Key() gridlayout.GridKey {
	return gridlayout.GridKey{ModuleID: m.ModuleID, TransactionID: m.TransactionID, GridName: m.GridName}
}

// Encoded returns the stored wire strings
func (m *GridLayoutModel) Encoded() gridlayout.EncodedLayout {
	return gridlayout.EncodedLayout{
		ColVisible: m.ColVisible,
		ColOrder:   m.ColOrder,
		ColSize:    m.ColSize,
		Sort:       m.Sort,
	}
}

// ToDomain decodes the stored strings. A malformed blob returns an error
// rather than a partial layout.
func (m *GridLayoutModel) ToDomain() (*gridlayout.GridLayout, error) {
	state, err := gridlayout.DecodeState(m.Encoded())
	if err != nil {
		return nil, err
	}
	return &gridlayout.GridLayout{
		TenantAggregateRoot: m.TenantAggregateModel.ToDomain(),
		UserID:              m.UserID,
		Key:                 m.Key(),
		State:               state,
	}, nil
}
