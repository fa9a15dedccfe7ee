package list_reconciliation

import (
	"context"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/service/refunds/models"
)

type RefundService interface {
	ListForReconciliation(ctx context.Context, actor domain.Actor) (*models.ReconciliationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
