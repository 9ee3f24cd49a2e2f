package storage

import (
	"context"
	"fmt"

	exportapp "github.com/erp/workbench/internal/application/export"
	"github.com/erp/workbench/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewArchiveStorage builds the configured archive backend
func NewArchiveStorage(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (exportapp.ArchiveStorage, error) {
	switch cfg.Provider {
	case "s3":
		s, err := NewS3ObjectStorage(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Export archive storage ready", zap.String("provider", "s3"), zap.String("bucket", s.Bucket()))
		return s, nil
	case "", "stub":
		logger.Info("Export archive storage ready", zap.String("provider", "stub"))
		return NewStubObjectStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
