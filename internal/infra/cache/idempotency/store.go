package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "idempotency:"
	placeholder = "__in_progress__"
	// lockTTL ограничивает время жизни метки выполнения, если процесс упал до Save
	lockTTL = 2 * time.Minute
)

// CachedResponse сохраненный ответ на запрос с Idempotency-Key
type CachedResponse struct {
	StatusCode  int    `json:"statusCode"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Store хранилище ответов по ключу идемпотентности
type Store struct {
	client Client
	ttl    time.Duration
}

// NewStore создает новый экземпляр хранилища
func NewStore(client Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Get возвращает сохраненный ответ. nil, nil - ключ не использовался.
func (s *Store) Get(ctx context.Context, key string) (*CachedResponse, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - %v", ErrCache, err)
	}

	if raw == placeholder {
		return nil, ErrInProgress
	}

	var resp CachedResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: key=%s: %v", ErrCorrupted, key, err)
	}
	return &resp, nil
}

// Reserve помечает ключ как выполняющийся. false - ключ уже занят.
func (s *Store) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, placeholder, lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("%w: Reserve - %v", ErrCache, err)
	}
	return ok, nil
}

// Save сохраняет ответ вместо метки выполнения
func (s *Store) Save(ctx context.Context, key string, resp *CachedResponse) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("%w: Save - encode: %v", ErrCache, err)
	}

	if err := s.client.Set(ctx, keyPrefix+key, body, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Save - %v", ErrCache, err)
	}
	return nil
}

// Release снимает метку выполнения, чтобы запрос можно было повторить
func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: Release - %v", ErrCache, err)
	}
	return nil
}
