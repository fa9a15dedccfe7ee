package get_refund_policy

import (
	"context"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/service/policies/models"
)

type PolicyService interface {
	Get(ctx context.Context, actor domain.Actor, serviceType *string) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
