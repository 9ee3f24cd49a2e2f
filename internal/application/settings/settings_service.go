package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/erp/workbench/internal/application/common"
	"github.com/erp/workbench/internal/domain/settings"
	"github.com/erp/workbench/internal/domain/shared"
	"github.com/erp/workbench/internal/infrastructure/logger"
	"github.com/erp/workbench/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettingView is a settings form as served to clients
type SettingView struct {
	Category  settings.Category `json:"category"`
	Key       string            `json:"key"`
	Payload   settings.Payload  `json:"payload"`
	Locked    bool              `json:"locked"`
	LockedBy  *uuid.UUID        `json:"locked_by,omitempty"`
	LockedAt  *time.Time        `json:"locked_at,omitempty"`
	Version   int               `json:"version"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
	// Persisted is false when category defaults are being served
	Persisted bool `json:"persisted"`
}

// IssuedNumber is a document number handed out by IssueNumber
type IssuedNumber struct {
	Number string `json:"number"`
	Next   string `json:"next"`
}

// SaveSettingRequest carries a form submission
type SaveSettingRequest struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Category settings.Category
	Key      string
	Payload  json.RawMessage
}

// SettingsService reads and writes settings forms. Mutations answer with
// the result envelope: 1 on success, -2 when the record is locked and -1
// for anything else.
type SettingsService struct {
	repo    settings.SettingRepository
	metrics *telemetry.WorkbenchMetrics
	now     func() time.Time
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo settings.SettingRepository, metrics *telemetry.WorkbenchMetrics) *SettingsService {
	return &SettingsService{repo: repo, metrics: metrics, now: time.Now}
}

// Get returns the saved form, or the category defaults when nothing is saved
func (s *SettingsService) Get(ctx context.Context, tenantID uuid.UUID, category settings.Category, key string) (*SettingView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settings", "get",
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrCategory, string(category),
		telemetry.SpanAttrSettingKey, key,
	)
	defer span.End()

	record, err := s.repo.Find(ctx, tenantID, category, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return defaultView(category, key), nil
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	return toView(record)
}

// List returns every saved form of a category
func (s *SettingsService) List(ctx context.Context, tenantID uuid.UUID, category settings.Category) ([]SettingView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settings", "list",
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrCategory, string(category),
	)
	defer span.End()

	records, err := s.repo.ListByCategory(ctx, tenantID, category)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	views := make([]SettingView, 0, len(records))
	for i := range records {
		v, err := toView(&records[i])
		if err != nil {
			logger.L(ctx).Warn("Skipping unreadable settings record",
				zap.String("key", records[i].Key),
				zap.Error(err),
			)
			continue
		}
		views = append(views, *v)
	}
	return views, nil
}

// Save validates and stores a form submission
func (s *SettingsService) Save(ctx context.Context, req SaveSettingRequest) shared.Result[*SettingView] {
	ctx, span := telemetry.StartServiceSpan(ctx, "settings", "save",
		telemetry.SpanAttrTenantID, req.TenantID.String(),
		telemetry.SpanAttrUserID, req.UserID.String(),
		telemetry.SpanAttrCategory, string(req.Category),
		telemetry.SpanAttrSettingKey, req.Key,
	)
	defer span.End()

	view, err := s.save(ctx, req)
	s.metrics.SettingsSaved(ctx, string(req.Category), err)
	res := common.Envelope(ctx, view, err, "Settings saved")
	telemetry.SetAttributes(span, telemetry.SpanAttrResultCode, int(res.Code))
	return res
}

func (s *SettingsService) save(ctx context.Context, req SaveSettingRequest) (*SettingView, error) {
	record, err := s.repo.Find(ctx, req.TenantID, req.Category, req.Key)
	isNew := errors.Is(err, shared.ErrNotFound)
	if err != nil && !isNew {
		return nil, err
	}
	// a locked record refuses every submission, valid or not
	if !isNew && record.Locked {
		return nil, shared.ErrRecordLocked
	}

	payload, err := settings.DecodePayload(req.Category, req.Payload)
	if err != nil {
		return nil, err
	}
	if isNew {
		record, err = settings.NewSettingRecord(req.TenantID, req.Key, payload, req.UserID)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, err
		}
		return toView(record)
	}

	if err := record.Update(payload, req.UserID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}
	return toView(record)
}

// Lock freezes a form. Locking a form that was never saved stores its
// defaults first.
func (s *SettingsService) Lock(ctx context.Context, tenantID, userID uuid.UUID, category settings.Category, key string) shared.Result[*SettingView] {
	ctx, span := telemetry.StartServiceSpan(ctx, "settings", "lock",
		telemetry.SpanAttrCategory, string(category),
		telemetry.SpanAttrSettingKey, key,
	)
	defer span.End()

	view, err := s.mutate(ctx, tenantID, userID, category, key, func(r *settings.SettingRecord) error {
		return r.Lock(userID)
	})
	return common.Envelope(ctx, view, err, "Settings locked")
}

// Unlock makes a locked form editable again
func (s *SettingsService) Unlock(ctx context.Context, tenantID, userID uuid.UUID, category settings.Category, key string) shared.Result[*SettingView] {
	ctx, span := telemetry.StartServiceSpan(ctx, "settings", "unlock",
		telemetry.SpanAttrCategory, string(category),
		telemetry.SpanAttrSettingKey, key,
	)
	defer span.End()

	view, err := s.mutate(ctx, tenantID, userID, category, key, func(r *settings.SettingRecord) error {
		return r.Unlock()
	})
	return common.Envelope(ctx, view, err, "Settings unlocked")
}

// IssueNumber hands out the next number of a document numbering series and
// persists the advanced counter.
func (s *SettingsService) IssueNumber(ctx context.Context, tenantID, userID uuid.UUID, key string) shared.Result[*IssuedNumber] {
	ctx, span := telemetry.StartServiceSpan(ctx, "settings", "issue_number",
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrSettingKey, key,
	)
	defer span.End()

	var issued *IssuedNumber
	_, err := s.mutateWithRetry(ctx, tenantID, userID, settings.CategoryDocumentNumbering, key, func(r *settings.SettingRecord) error {
		now := s.now()
		num, err := r.IssueNumber(now)
		if err != nil {
			return err
		}
		p, err := r.Decode()
		if err != nil {
			return err
		}
		issued = &IssuedNumber{Number: num, Next: p.(settings.DocumentNumbering).Preview(now)}
		return nil
	})
	return common.Envelope(ctx, issued, err, "")
}

// issueAttempts bounds how often IssueNumber rereads a series that another
// request advanced first
const issueAttempts = 5

// mutateWithRetry runs mutate again on a fresh copy of the record when the
// save lost a version race
func (s *SettingsService) mutateWithRetry(ctx context.Context, tenantID, userID uuid.UUID, category settings.Category, key string, fn func(*settings.SettingRecord) error) (*SettingView, error) {
	var (
		view *SettingView
		err  error
	)
	for attempt := 1; attempt <= issueAttempts; attempt++ {
		view, err = s.mutate(ctx, tenantID, userID, category, key, fn)
		if !errors.Is(err, shared.ErrConcurrentEdit) {
			return view, err
		}
		logger.L(ctx).Debug("Settings record changed concurrently, retrying",
			zap.String("category", string(category)),
			zap.String("key", key),
			zap.Int("attempt", attempt),
		)
	}
	return nil, err
}

// mutate applies fn to the stored record, or to the category defaults when
// nothing was saved yet, and writes it back under the version check
func (s *SettingsService) mutate(ctx context.Context, tenantID, userID uuid.UUID, category settings.Category, key string, fn func(*settings.SettingRecord) error) (*SettingView, error) {
	record, err := s.repo.Find(ctx, tenantID, category, key)
	isNew := errors.Is(err, shared.ErrNotFound)
	if isNew {
		record, err = settings.NewSettingRecord(tenantID, key, settings.DefaultPayload(category), userID)
	}
	if err != nil {
		return nil, err
	}
	if err := fn(record); err != nil {
		return nil, err
	}
	if isNew {
		err = s.repo.Create(ctx, record)
	} else {
		err = s.repo.Save(ctx, record)
	}
	if err != nil {
		return nil, err
	}
	return toView(record)
}

func defaultView(category settings.Category, key string) *SettingView {
	return &SettingView{
		Category: category,
		Key:      key,
		Payload:  settings.DefaultPayload(category),
	}
}

func toView(r *settings.SettingRecord) (*SettingView, error) {
	p, err := r.Decode()
	if err != nil {
		return nil, err
	}
	updated := r.UpdatedAt
	return &SettingView{
		Category:  r.Category,
		Key:       r.Key,
		Payload:   p,
		Locked:    r.Locked,
		LockedBy:  r.LockedBy,
		LockedAt:  r.LockedAt,
		Version:   r.Version,
		UpdatedAt: &updated,
		Persisted: true,
	}, nil
}
