package cancel_booking

import (
	"context"

	cancelUseCase "github.com/bikawo/bikawo-booking-service/internal/usecase/cancel_booking"
)

type CancelUseCase interface {
	Execute(ctx context.Context, req *cancelUseCase.Request) (*cancelUseCase.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
