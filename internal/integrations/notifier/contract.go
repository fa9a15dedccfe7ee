package notifier

import "context"

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Notifier доставляет события отмены участникам и оповещения операторам
type Notifier interface {
	NotifyCancellation(ctx context.Context, event *CancellationEvent) error
	AlertOperators(ctx context.Context, alert *OperatorAlert) error
	Close() error
}
