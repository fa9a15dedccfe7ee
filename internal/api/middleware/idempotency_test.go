package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/infra/cache/idempotency"
)

// memoryCache хранилище в памяти с семантикой idempotency.Store
type memoryCache struct {
	entries map[string]*idempotency.CachedResponse
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]*idempotency.CachedResponse{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (*idempotency.CachedResponse, error) {
	if c.failGet {
		return nil, idempotency.ErrCache
	}
	resp, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if resp == nil {
		return nil, idempotency.ErrInProgress
	}
	return resp, nil
}

func (c *memoryCache) Reserve(_ context.Context, key string) (bool, error) {
	if _, ok := c.entries[key]; ok {
		return false, nil
	}
	c.entries[key] = nil
	return true, nil
}

func (c *memoryCache) Save(_ context.Context, key string, resp *idempotency.CachedResponse) error {
	c.entries[key] = resp
	return nil
}

func (c *memoryCache) Release(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func countingHandler(status int, calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
}

func idempotentRequest(actor domain.Actor, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/abc/cancel", nil)
	req.Header.Set(IdempotencyHeader, key)
	return req.WithContext(WithActor(req.Context(), actor))
}

func TestIdempotency_ReplaysSavedResponse(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	handler := Idempotency(cache, nopLogger{})(countingHandler(http.StatusOK, &calls))
	actor := domain.Actor{UserID: uuid.New(), Role: domain.RoleClient}

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, idempotentRequest(actor, "key-1"))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, idempotentRequest(actor, "key-1"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, `{"success":true}`, second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
}

func TestIdempotency_KeysAreScopedToUser(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	handler := Idempotency(cache, nopLogger{})(countingHandler(http.StatusOK, &calls))

	handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest(domain.Actor{UserID: uuid.New()}, "key-1"))
	handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest(domain.Actor{UserID: uuid.New()}, "key-1"))

	assert.Equal(t, 2, calls)
}

func TestIdempotency_ServerErrorsAreNotCached(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	handler := Idempotency(cache, nopLogger{})(countingHandler(http.StatusInternalServerError, &calls))
	actor := domain.Actor{UserID: uuid.New()}

	handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest(actor, "key-1"))
	handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest(actor, "key-1"))

	assert.Equal(t, 2, calls)
	assert.Empty(t, cache.entries)
}

func TestIdempotency_InProgress(t *testing.T) {
	cache := newMemoryCache()
	actor := domain.Actor{UserID: uuid.New()}
	reserved, err := cache.Reserve(context.Background(), actor.UserID.String()+":PATCH:/api/v1/bookings/abc/cancel:key-1")
	require.NoError(t, err)
	require.True(t, reserved)

	calls := 0
	rec := httptest.NewRecorder()
	Idempotency(cache, nopLogger{})(countingHandler(http.StatusOK, &calls)).ServeHTTP(rec, idempotentRequest(actor, "key-1"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, calls)
}

func TestIdempotency_PassThrough(t *testing.T) {
	t.Run("no header", func(t *testing.T) {
		calls := 0
		handler := Idempotency(newMemoryCache(), nopLogger{})(countingHandler(http.StatusOK, &calls))
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/abc/cancel", nil)

		handler.ServeHTTP(httptest.NewRecorder(), req)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, 2, calls)
	})

	t.Run("cache down", func(t *testing.T) {
		cache := newMemoryCache()
		cache.failGet = true
		calls := 0
		rec := httptest.NewRecorder()

		Idempotency(cache, nopLogger{})(countingHandler(http.StatusOK, &calls)).
			ServeHTTP(rec, idempotentRequest(domain.Actor{UserID: uuid.New()}, "key-1"))

		assert.Equal(t, 1, calls)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
