// Package export produces xlsx and pdf files from grids, laid out with the
// requesting user's column layout.
package export

import (
	"context"
	"fmt"
	"path"
	"time"

	layoutapp "github.com/erp/workbench/internal/application/gridlayout"
	"github.com/erp/workbench/internal/domain/export"
	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/domain/shared"
	"github.com/erp/workbench/internal/infrastructure/logger"
	"github.com/erp/workbench/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrTooManyRows is returned when an export exceeds the configured row limit
var ErrTooManyRows = shared.NewDomainError("EXPORT_TOO_LARGE", "Too many rows to export, narrow the search first")

// ErrFormatUnavailable is returned when no writer is registered for a format
var ErrFormatUnavailable = shared.NewDomainError("EXPORT_FORMAT_UNAVAILABLE", "Export format is not available")

// ArchiveStorage keeps copies of generated files
type ArchiveStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// GenerateDownloadURL returns a time-limited URL and its expiry.
	// A non-positive expiresIn uses the storage default.
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// Config tunes the export service
type Config struct {
	// MaxRows caps the rows of one export; 0 disables the cap
	MaxRows int
	// Archive uploads every file to storage and returns a download URL
	Archive bool
	// URLExpiry is how long download URLs stay valid; 0 uses the storage default
	URLExpiry time.Duration
}

// Request describes one export
type Request struct {
	Owner  layoutapp.Owner
	Key    gridlayout.GridKey
	Format export.Format
	Title  string
	Search string
}

// File is a generated export
type File struct {
	Name        string     `json:"file_name"`
	ContentType string     `json:"content_type"`
	Data        []byte     `json:"-"`
	Rows        int        `json:"rows"`
	StorageKey  string     `json:"storage_key,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Service renders grids to files
type Service struct {
	layouts *layoutapp.LayoutService
	writers map[export.Format]export.Writer
	storage ArchiveStorage
	cfg     Config
	metrics *telemetry.WorkbenchMetrics
	now     func() time.Time
}

// NewService creates an export service. storage may be nil when archiving
// is disabled.
func NewService(layouts *layoutapp.LayoutService, storage ArchiveStorage, cfg Config, metrics *telemetry.WorkbenchMetrics, writers ...export.Writer) *Service {
	s := &Service{
		layouts: layouts,
		writers: make(map[export.Format]export.Writer, len(writers)),
		storage: storage,
		cfg:     cfg,
		metrics: metrics,
		now:     time.Now,
	}
	for _, w := range writers {
		s.writers[w.Format()] = w
	}
	return s
}

// Export lays src out with the user's layout for req.Key and writes it in
// req.Format. Identifier columns never appear in the file.
func (s *Service) Export(ctx context.Context, src Source, req Request) (*File, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "export",
		telemetry.SpanAttrTenantID, req.Owner.TenantID.String(),
		telemetry.SpanAttrGrid, req.Key.String(),
		telemetry.SpanAttrFormat, string(req.Format),
	)
	defer span.End()

	start := s.now()
	file, err := s.export(ctx, src, req)
	rows := 0
	if file != nil {
		rows = file.Rows
	}
	s.metrics.ExportFinished(ctx, string(req.Format), rows, s.now().Sub(start), err)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRows, rows)
	return file, nil
}

func (s *Service) export(ctx context.Context, src Source, req Request) (*File, error) {
	w, ok := s.writers[req.Format]
	if !ok {
		return nil, ErrFormatUnavailable
	}

	state := s.layouts.State(ctx, req.Owner, req.Key, src.Columns())
	title := req.Title
	if title == "" {
		title = req.Key.GridName
	}
	sheet, err := src.Sheet(ctx, req.Owner.TenantID, state, title, req.Search, s.cfg.MaxRows)
	if err != nil {
		return nil, err
	}

	data, err := w.Write(ctx, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s export: %w", req.Format, err)
	}

	now := s.now()
	file := &File{
		Name:        export.FileName(title, req.Format, now),
		ContentType: req.Format.ContentType(),
		Data:        data,
		Rows:        len(sheet.Rows),
	}
	if s.cfg.Archive && s.storage != nil {
		s.archive(ctx, req, file, now)
	}
	return file, nil
}

// archive failures are logged; the caller still receives the file
func (s *Service) archive(ctx context.Context, req Request, file *File, now time.Time) {
	key := path.Join("exports", req.Owner.TenantID.String(), now.UTC().Format("2006/01/02"), file.Name)
	if err := s.storage.Upload(ctx, key, file.Data, file.ContentType); err != nil {
		logger.L(ctx).Warn("Export archive upload failed", zap.String("key", key), zap.Error(err))
		return
	}
	file.StorageKey = key
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.cfg.URLExpiry)
	if err != nil {
		logger.L(ctx).Warn("Export download URL failed", zap.String("key", key), zap.Error(err))
		return
	}
	file.DownloadURL = url
	file.ExpiresAt = &expiresAt
}
