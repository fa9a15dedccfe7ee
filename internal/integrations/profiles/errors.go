package profiles

import "errors"

var (
	// ErrProfileNotFound возвращается, когда профиль пользователя не найден
	ErrProfileNotFound = errors.New("profiles client: profile not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("profiles client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от Supabase
	ErrInvalidResponse = errors.New("profiles client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation.
	// Уведомление отправляется без контактных данных получателя.
	ErrServiceDegraded = errors.New("profiles unavailable: graceful degradation applied")
)
