// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for volatile data storage.

It backs the metadata provider result cache: provider responses are stored
under "api:{source}:{endpoint}:..." keys with a TTL, and the catalog evicts
them by pattern when the underlying media changes.

Core Responsibilities:

  - Volatility: Handles data with TTL (Time-To-Live).
  - Eviction: Pattern deletes via incremental SCAN (see [DeleteByPattern]).
  - Safety: Manages connection pooling and retry logic automatically.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Opiniated default timeouts for Redis operations.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// NewClient parses a Redis URL and returns a ready-to-use client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	// Pool configuration Tuning
	options.PoolSize = 10
	options.MinIdleConns = 2
	options.MaxIdleConns = 5

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	// Validate connectivity immediately at startup.
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis client connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

// scanBatchSize is the COUNT hint passed to SCAN.
const scanBatchSize = 200

// DeleteByPattern removes every key matching a glob pattern and returns how many
// were removed. It walks the keyspace with SCAN so it never blocks the server the
// way KEYS would, and unlinks each batch asynchronously.
func DeleteByPattern(context stdctx.Context, client redis.UniversalClient, pattern string) (int, error) {
	var (
		cursor  uint64
		removed int
	)

	for {
		keys, next, err := client.Scan(context, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return removed, fmt.Errorf("redis: scan %q failed: %w", pattern, err)
		}

		if len(keys) > 0 {
			count, err := client.Unlink(context, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("redis: unlink failed: %w", err)
			}
			removed += int(count)
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
