package stripegateway

import "errors"

var (
	// ErrInvalidRequest возвращается при некорректных параметрах возврата
	ErrInvalidRequest = errors.New("stripegateway: invalid refund request")

	// ErrTimeout возвращается, когда шлюз не ответил вовремя. Возврат мог пройти.
	ErrTimeout = errors.New("stripegateway: refund timed out")

	// ErrRejected возвращается, когда шлюз отклонил возврат
	ErrRejected = errors.New("stripegateway: refund rejected")

	// ErrUnavailable возвращается при сетевых ошибках и ошибках шлюза 5xx
	ErrUnavailable = errors.New("stripegateway: gateway unavailable")

	// ErrDisabled возвращается, когда вызовы шлюза отключены в конфигурации
	ErrDisabled = errors.New("stripegateway: gateway disabled")
)
