package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyRepository remembers which POS checkout attempts already went
// through, keyed by the register's idempotency token. A replayed request gets
// the original order number back instead of a second order.
type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, orderNumber string, ttl time.Duration) error
}

// RedisIdempotencyRepository implements IdempotencyRepository on Redis.
type RedisIdempotencyRepository struct {
	client *redis.Client
}

func NewRedisIdempotencyRepository(client *redis.Client) IdempotencyRepository {
	return &RedisIdempotencyRepository{client: client}
}

func (r *RedisIdempotencyRepository) key(key string) string {
	return "idem:pos:" + key
}

// Get returns the stored order number, or "" when the key is unseen.
func (r *RedisIdempotencyRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisIdempotencyRepository) Set(ctx context.Context, key, orderNumber string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), orderNumber, ttl).Err()
}
