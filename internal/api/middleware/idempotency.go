package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/bikawo/bikawo-booking-service/internal/api/handlers"
	"github.com/bikawo/bikawo-booking-service/internal/infra/cache/idempotency"
)

const (
	// IdempotencyHeader заголовок с ключом идемпотентности
	IdempotencyHeader = "Idempotency-Key"

	maxIdempotencyKeyLength = 255

	msgRequestInProgress  = "a request with this Idempotency-Key is still in progress"
	msgInvalidIdempotency = "Idempotency-Key is too long"
)

// ResponseCache хранилище ответов по ключу идемпотентности
type ResponseCache interface {
	Get(ctx context.Context, key string) (*idempotency.CachedResponse, error)
	Reserve(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, resp *idempotency.CachedResponse) error
	Release(ctx context.Context, key string) error
}

// bufferingWriter дублирует ответ в буфер для сохранения в кэш
type bufferingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *bufferingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *bufferingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency повторяет сохраненный ответ для запроса с тем же Idempotency-Key.
// Ключ привязан к пользователю и пути. Без заголовка запрос обрабатывается как обычно.
// Ошибки кэша не блокируют запрос: защиту от двойной отмены дает условное обновление в БД.
func Idempotency(cache ResponseCache, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(IdempotencyHeader)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(header) > maxIdempotencyKeyLength {
				handlers.RespondBadRequest(w, msgInvalidIdempotency)
				return
			}

			key := r.Method + ":" + r.URL.Path + ":" + header
			if userID, ok := GetUserID(r.Context()); ok {
				key = userID.String() + ":" + key
			}
			ctx := r.Context()

			cached, err := cache.Get(ctx, key)
			switch {
			case errors.Is(err, idempotency.ErrInProgress):
				handlers.RespondConflict(w, msgRequestInProgress)
				return
			case err != nil:
				logger.Warn("Idempotency: cache unavailable, processing without replay protection: %v", err)
				next.ServeHTTP(w, r)
				return
			case cached != nil:
				w.Header().Set("Content-Type", cached.ContentType)
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(cached.StatusCode)
				_, _ = w.Write(cached.Body)
				return
			}

			reserved, err := cache.Reserve(ctx, key)
			if err != nil {
				logger.Warn("Idempotency: failed to reserve key, processing without replay protection: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if !reserved {
				handlers.RespondConflict(w, msgRequestInProgress)
				return
			}

			rec := &bufferingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// Ответы 5xx не кэшируем: повтор должен выполниться заново
			storeCtx := context.WithoutCancel(ctx)
			if rec.status >= http.StatusInternalServerError {
				if err := cache.Release(storeCtx, key); err != nil {
					logger.Warn("Idempotency: failed to release key: %v", err)
				}
				return
			}

			if err := cache.Save(storeCtx, key, &idempotency.CachedResponse{
				StatusCode:  rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}); err != nil {
				logger.Warn("Idempotency: failed to save response: %v", err)
			}
		})
	}
}
