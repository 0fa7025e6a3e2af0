package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	processedKeyPrefix = "processed:"
	processedKeyTTL    = 24 * time.Hour
)

// RedisDedupStore records processed order ids so a redelivered event can be
// skipped instead of double-applied.
type RedisDedupStore struct {
	client *redis.Client
}

func NewRedisDedupStore(client *redis.Client) *RedisDedupStore {
	return &RedisDedupStore{client: client}
}

func (r *RedisDedupStore) MarkProcessed(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, processedKeyPrefix+key, 1, processedKeyTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
