package list_refund_policies

import (
	"context"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/service/policies/models"
)

type PolicyService interface {
	List(ctx context.Context, actor domain.Actor) (*models.PolicyListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
