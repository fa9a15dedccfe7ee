package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client подмножество команд Redis, используемых хранилищем (*redis.Client его реализует)
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}
