package cache

import (
	"maps"
	"slices"

	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/google/uuid"
)

// DefaultKeyPrefix namespaces layout entries in a shared Redis
const DefaultKeyPrefix = "workbench:layout:"

func layoutKey(prefix string, tenantID, userID uuid.UUID, key gridlayout.GridKey) string {
	return prefix + tenantID.String() + ":" + userID.String() + ":" + key.String()
}

// cloneState copies s so cached values cannot be mutated through callers
func cloneState(s gridlayout.LayoutState) gridlayout.LayoutState {
	return gridlayout.LayoutState{
		Visibility: maps.Clone(s.Visibility),
		Order:      slices.Clone(s.Order),
		Sizes:      maps.Clone(s.Sizes),
		Sort:       slices.Clone(s.Sort),
	}
}
