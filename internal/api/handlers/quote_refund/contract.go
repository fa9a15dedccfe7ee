package quote_refund

import (
	"context"

	quoteUseCase "github.com/bikawo/bikawo-booking-service/internal/usecase/quote_refund"
)

type QuoteUseCase interface {
	Execute(ctx context.Context, req *quoteUseCase.Request) (*quoteUseCase.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
