package gridlayout

import (
	"fmt"
	"strings"

	"github.com/erp/workbench/internal/domain/shared"
)

// MaxGridNameLength bounds GridKey.GridName
const MaxGridNameLength = 100

// GridKey identifies one grid on one screen of one module.
type GridKey struct {
	ModuleID      int64
	TransactionID int64
	GridName      string
}

// NewGridKey validates and builds a GridKey
func NewGridKey(moduleID, transactionID int64, gridName string) (GridKey, error) {
	k := GridKey{
		ModuleID:      moduleID,
		TransactionID: transactionID,
		GridName:      strings.TrimSpace(gridName),
	}
	if err := k.Validate(); err != nil {
		return GridKey{}, err
	}
	return k, nil
}

// Validate checks the key's fields
func (k GridKey) Validate() error {
	if k.ModuleID < 0 || k.TransactionID < 0 {
		return shared.NewDomainError("INVALID_GRID_KEY", "Module and transaction ids cannot be negative")
	}
	if k.GridName == "" {
		return shared.NewDomainError("INVALID_GRID_KEY", "Grid key cannot be empty")
	}
	if len(k.GridName) > MaxGridNameLength {
		return shared.NewDomainError("INVALID_GRID_KEY", "Grid key cannot exceed 100 characters")
	}
	return nil
}

// String returns "<module>:<transaction>:<grid>"
func (k GridKey) String() string {
	return fmt.Sprintf("%d:%d:%s", k.ModuleID, k.TransactionID, k.GridName)
}
