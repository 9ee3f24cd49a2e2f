package gridlayout

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/domain/shared"
	"github.com/erp/workbench/internal/infrastructure/logger"
	"github.com/erp/workbench/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Cache lookup results recorded by LayoutService
const (
	lookupHit      = "hit"
	lookupMiss     = "miss"
	lookupFallback = "fallback"
)

// LayoutService loads and saves per-user grid layouts
type LayoutService struct {
	repo    gridlayout.LayoutRepository
	cache   gridlayout.LayoutCache
	metrics *telemetry.WorkbenchMetrics
}

// LayoutServiceOption configures a LayoutService
type LayoutServiceOption func(*LayoutService)

// WithCache puts a read-through cache in front of the repository
func WithCache(c gridlayout.LayoutCache) LayoutServiceOption {
	return func(s *LayoutService) {
		s.cache = c
	}
}

// WithMetrics records layout counters
func WithMetrics(m *telemetry.WorkbenchMetrics) LayoutServiceOption {
	return func(s *LayoutService) {
		s.metrics = m
	}
}

// NewLayoutService creates a new LayoutService
func NewLayoutService(repo gridlayout.LayoutRepository, opts ...LayoutServiceOption) *LayoutService {
	s := &LayoutService{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the user's layout reconciled against columns. It never
// fails: a missing record, a storage error or a malformed blob all serve
// the default state, and only the latter two are logged.
func (s *LayoutService) Load(ctx context.Context, owner Owner, key gridlayout.GridKey, columns gridlayout.Columns) LayoutView {
	ctx, span := telemetry.StartServiceSpan(ctx, "grid_layout", "load",
		telemetry.SpanAttrTenantID, owner.TenantID.String(),
		telemetry.SpanAttrUserID, owner.UserID.String(),
		telemetry.SpanAttrGrid, key.String(),
	)
	defer span.End()

	persisted, result := s.lookup(ctx, owner, key)
	s.metrics.LayoutLookup(ctx, result)
	return newLayoutView(key, columns, persisted)
}

func (s *LayoutService) lookup(ctx context.Context, owner Owner, key gridlayout.GridKey) (*gridlayout.LayoutState, string) {
	if s.cache != nil {
		if st, ok := s.cache.Get(ctx, owner.TenantID, owner.UserID, key); ok {
			return st, lookupHit
		}
	}

	layout, err := s.repo.Find(ctx, owner.TenantID, owner.UserID, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, lookupMiss
		}
		logger.L(ctx).Warn("Grid layout unavailable, serving defaults",
			zap.String("grid", key.String()),
			zap.Error(err),
		)
		return nil, lookupFallback
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, owner.TenantID, owner.UserID, key, layout.State); err != nil {
			logger.L(ctx).Debug("Grid layout cache write failed", zap.Error(err))
		} else if s.changedSince(ctx, owner, layout) {
			s.invalidate(ctx, owner, key)
		}
	}
	return &layout.State, lookupMiss
}

// changedSince reports whether the stored layout is no longer the row read.
// A save or reset landing between the read and the cache write would
// otherwise leave its invalidation overwritten by the older state.
func (s *LayoutService) changedSince(ctx context.Context, owner Owner, read *gridlayout.GridLayout) bool {
	current, err := s.repo.Find(ctx, owner.TenantID, owner.UserID, read.Key)
	if err != nil {
		return true
	}
	return current.ID != read.ID || current.Version != read.Version
}

func newLayoutView(key gridlayout.GridKey, columns gridlayout.Columns, persisted *gridlayout.LayoutState) LayoutView {
	state := gridlayout.Reconcile(columns, persisted)
	view := LayoutView{Key: key, State: state, Persisted: persisted != nil}
	if persisted != nil {
		// encoding a decoded state cannot fail
		view.Encoded, _ = gridlayout.EncodeState(*persisted)
	}
	return view
}

// Save reconciles req against columns and stores it, replacing any layout
// the user already has for key.
func (s *LayoutService) Save(ctx context.Context, owner Owner, key gridlayout.GridKey, columns gridlayout.Columns, req SaveLayoutRequest) (LayoutView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "grid_layout", "save",
		telemetry.SpanAttrTenantID, owner.TenantID.String(),
		telemetry.SpanAttrUserID, owner.UserID.String(),
		telemetry.SpanAttrGrid, key.String(),
	)
	defer span.End()

	if err := key.Validate(); err != nil {
		return LayoutView{}, err
	}
	state := gridlayout.Reconcile(columns, &gridlayout.LayoutState{
		Visibility: req.Visibility,
		Order:      req.Order,
		Sizes:      req.Sizes,
		Sort:       req.Sort,
	})
	snapshot := state.Snapshot(req.IncludeSort)

	if err := s.store(ctx, owner, key, snapshot); err != nil {
		telemetry.RecordError(span, err)
		return LayoutView{}, err
	}
	s.metrics.LayoutSaved(ctx, key.GridName)
	return newLayoutView(key, columns, &snapshot), nil
}

// Move relocates the column at display position from to position to and
// saves the result, keeping the rest of the user's layout.
func (s *LayoutService) Move(ctx context.Context, owner Owner, key gridlayout.GridKey, columns gridlayout.Columns, from, to int) (LayoutView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "grid_layout", "move",
		telemetry.SpanAttrGrid, key.String(),
		"from", from,
		"to", to,
	)
	defer span.End()

	persisted, _ := s.lookup(ctx, owner, key)
	state := gridlayout.Reconcile(columns, persisted)
	if err := state.Move(from, to); err != nil {
		return LayoutView{}, err
	}
	snapshot := state.Snapshot(true)
	if err := s.store(ctx, owner, key, snapshot); err != nil {
		telemetry.RecordError(span, err)
		return LayoutView{}, err
	}
	s.metrics.LayoutSaved(ctx, key.GridName)
	return newLayoutView(key, columns, &snapshot), nil
}

func (s *LayoutService) store(ctx context.Context, owner Owner, key gridlayout.GridKey, state gridlayout.LayoutState) error {
	layout, err := s.repo.Find(ctx, owner.TenantID, owner.UserID, key)
	if err == nil {
		layout.Replace(state)
	} else {
		// unreadable rows are overwritten by the upsert
		if !errors.Is(err, shared.ErrNotFound) {
			logger.L(ctx).Warn("Overwriting unreadable grid layout",
				zap.String("grid", key.String()),
				zap.Error(err),
			)
		}
		layout, err = gridlayout.NewGridLayout(owner.TenantID, owner.UserID, key, state)
		if err != nil {
			return err
		}
	}

	if err := s.repo.Save(ctx, layout); err != nil {
		return fmt.Errorf("failed to save grid layout: %w", err)
	}
	s.invalidate(ctx, owner, key)
	return nil
}

// Reset deletes the user's layout and returns the default state. Resetting
// a grid that was never saved is not an error.
func (s *LayoutService) Reset(ctx context.Context, owner Owner, key gridlayout.GridKey, columns gridlayout.Columns) (LayoutView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "grid_layout", "reset",
		telemetry.SpanAttrTenantID, owner.TenantID.String(),
		telemetry.SpanAttrUserID, owner.UserID.String(),
		telemetry.SpanAttrGrid, key.String(),
	)
	defer span.End()

	if err := s.repo.Delete(ctx, owner.TenantID, owner.UserID, key); err != nil && !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return LayoutView{}, fmt.Errorf("failed to reset grid layout: %w", err)
	}
	s.invalidate(ctx, owner, key)
	s.metrics.LayoutReset(ctx, key.GridName)
	return newLayoutView(key, columns, nil), nil
}

// ListForUser returns the keys of every grid the user has customised
func (s *LayoutService) ListForUser(ctx context.Context, owner Owner) ([]gridlayout.GridKey, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "grid_layout", "list",
		telemetry.SpanAttrUserID, owner.UserID.String(),
	)
	defer span.End()

	keys, err := s.repo.ListKeys(ctx, owner.TenantID, owner.UserID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return keys, nil
}

// State returns the user's reconciled table state for rendering. Like Load
// it falls back to defaults.
func (s *LayoutService) State(ctx context.Context, owner Owner, key gridlayout.GridKey, columns gridlayout.Columns) gridlayout.TableState {
	return s.Load(ctx, owner, key, columns).State
}

func (s *LayoutService) invalidate(ctx context.Context, owner Owner, key gridlayout.GridKey) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, owner.TenantID, owner.UserID, key); err != nil {
		logger.L(ctx).Warn("Grid layout cache invalidation failed",
			zap.String("grid", key.String()),
			zap.Error(err),
		)
	}
}
