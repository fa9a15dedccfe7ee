package idempotency

import "errors"

var (
	// ErrInProgress возвращается, когда запрос с тем же ключом еще выполняется
	ErrInProgress = errors.New("idempotency.cache: request with this key is in progress")

	// ErrCache возвращается при ошибках Redis
	ErrCache = errors.New("idempotency.cache: redis error")

	// ErrCorrupted возвращается, когда сохраненный ответ не удается прочитать
	ErrCorrupted = errors.New("idempotency.cache: stored response is corrupted")
)
