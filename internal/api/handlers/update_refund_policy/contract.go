package update_refund_policy

import (
	"context"

	"github.com/bikawo/bikawo-booking-service/internal/service/policies/models"
)

type PolicyService interface {
	Update(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
