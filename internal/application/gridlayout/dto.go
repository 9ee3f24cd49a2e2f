package gridlayout

import (
	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/google/uuid"
)

// Owner identifies whose layout is being read or written
type Owner struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
}

// LayoutView is a layout resolved against a grid's columns
type LayoutView struct {
	Key     gridlayout.GridKey       `json:"-"`
	Encoded gridlayout.EncodedLayout `json:"layout"`
	State   gridlayout.TableState    `json:"state"`
	// Persisted is false when defaults are being served
	Persisted bool `json:"persisted"`
}

// SaveLayoutRequest is the table state a user wants to keep
type SaveLayoutRequest struct {
	Visibility map[string]bool
	Order      []string
	Sizes      map[string]int
	Sort       []gridlayout.SortRule
	// IncludeSort false saves an empty sort
	IncludeSort bool
}

// KeyResponse is one saved grid of a user
type KeyResponse struct {
	ModuleID      int64  `json:"module_id"`
	TransactionID int64  `json:"transaction_id"`
	GridName      string `json:"grid_name"`
}

// ToKeyResponses converts keys for the API
func ToKeyResponses(keys []gridlayout.GridKey) []KeyResponse {
	out := make([]KeyResponse, len(keys))
	for i, k := range keys {
		out[i] = KeyResponse{ModuleID: k.ModuleID, TransactionID: k.TransactionID, GridName: k.GridName}
	}
	return out
}
