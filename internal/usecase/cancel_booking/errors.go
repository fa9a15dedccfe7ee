package cancel_booking

import "errors"

var (
	// ErrInvalidArgument возвращается при некорректных входных данных
	// или некорректной дате/времени бронирования
	ErrInvalidArgument = errors.New("cancel_booking: invalid argument")

	// ErrNotFound возвращается, когда бронирование не найдено
	ErrNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь не может отменить бронирование от имени стороны
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrAlreadyCancelled возвращается, когда бронирование уже отменено
	ErrAlreadyCancelled = errors.New("cancel_booking: booking is already cancelled")

	// ErrCannotCancel возвращается для завершенного бронирования
	ErrCannotCancel = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrPersistence возвращается при ошибках хранилища
	ErrPersistence = errors.New("cancel_booking: persistence error")

	// ErrGateway сопровождает предупреждение в ответе, когда возврат не прошел.
	// Отмена при этом остается в силе.
	ErrGateway = errors.New("cancel_booking: refund gateway error")
)
