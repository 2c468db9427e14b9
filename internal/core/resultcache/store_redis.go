// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resultcache

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/listify/internal/platform/redis"
)

// RedisStore implements [Store] on a Redis keyspace.
type RedisStore struct {
	client goredis.UniversalClient
}

// NewRedisStore wraps a connected Redis client.
func NewRedisStore(client goredis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// DeleteByPattern unlinks every key matching pattern in SCAN-sized batches.
func (store *RedisStore) DeleteByPattern(context context.Context, pattern string) (int, error) {
	return redis.DeleteByPattern(context, store.client, pattern)
}
