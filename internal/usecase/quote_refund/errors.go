package quote_refund

import "errors"

var (
	// ErrNotFound возвращается, когда бронирование не найдено
	ErrNotFound = errors.New("quote_refund: booking not found")

	// ErrAccessDenied возвращается, когда пользователь не участвует в бронировании
	ErrAccessDenied = errors.New("quote_refund: access denied")

	// ErrNotCancellable возвращается для отмененного или завершенного бронирования
	ErrNotCancellable = errors.New("quote_refund: booking cannot be cancelled")

	// ErrInvalidArgument возвращается при некорректной дате/времени бронирования
	ErrInvalidArgument = errors.New("quote_refund: invalid argument")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("quote_refund: internal error")
)
