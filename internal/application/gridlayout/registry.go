package gridlayout

import (
	"sort"
	"sync"

	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/domain/shared"
)

// ErrUnknownGrid is returned for grid keys nothing has registered
var ErrUnknownGrid = shared.NewDomainError("GRID_NOT_FOUND", "Grid is not registered")

// Registry maps grid keys to their column definitions. Services register
// the grids they render at startup; the layout endpoints reconcile against
// these definitions. A grid name only resolves under the module and
// transaction it was registered with.
type Registry struct {
	mu    sync.RWMutex
	grids map[gridlayout.GridKey]gridlayout.Columns
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{grids: make(map[gridlayout.GridKey]gridlayout.Columns)}
}

// Register binds key to columns, replacing any previous definition
func (r *Registry) Register(key gridlayout.GridKey, columns gridlayout.Columns) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := columns.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grids[key] = columns
	return nil
}

// Columns returns the definition registered under key
func (r *Registry) Columns(key gridlayout.GridKey) (gridlayout.Columns, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cols, ok := r.grids[key]
	if !ok {
		return nil, ErrUnknownGrid
	}
	return cols, nil
}

// Keys returns the registered grid keys ordered by module, transaction and name
func (r *Registry) Keys() []gridlayout.GridKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]gridlayout.GridKey, 0, len(r.grids))
	for k := range r.grids {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ModuleID != b.ModuleID {
			return a.ModuleID < b.ModuleID
		}
		if a.TransactionID != b.TransactionID {
			return a.TransactionID < b.TransactionID
		}
		return a.GridName < b.GridName
	})
	return keys
}
