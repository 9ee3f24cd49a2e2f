// Package common holds helpers shared by the application services.
package common

import (
	"context"
	"errors"

	"github.com/erp/workbench/internal/domain/shared"
	"github.com/erp/workbench/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Envelope maps the outcome of a mutation onto the {result, message, data}
// protocol. Domain errors keep their message (-2 for locked records, -1
// otherwise); any other error is logged and answered with the generic
// failure text. success is the message of a successful result.
func Envelope[T any](ctx context.Context, data T, err error, success string) shared.Result[T] {
	if err == nil {
		return shared.Succeeded(data, success)
	}
	var zero T
	var de *shared.DomainError
	if !errors.As(err, &de) {
		logger.L(ctx).Error("Operation failed", zap.Error(err))
		return shared.Result[T]{Code: shared.ResultFailure, Message: shared.DefaultFailureMessage, Data: zero}
	}
	return shared.ResultFromError(zero, err)
}
