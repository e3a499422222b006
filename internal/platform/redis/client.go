// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the client behind the catalog's read-through cache.

The cache sits in front of PostgreSQL for by-name lookups and every miss or
error falls back to the store, so the client is tuned to fail fast rather than
to retry: a slow cache must never cost more than a database round trip.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/animeapi/internal/platform/constants"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 500 * time.Millisecond
	writeTimeout = 500 * time.Millisecond
	pingTimeout  = 2 * time.Second

	// One retry covers a connection the server closed while idle.
	maxRetries = 1
)

// cacheOptions parses redisURL and applies the cache tuning. Settings given
// in the URL query (pool_size, read_timeout, ...) are kept.
func cacheOptions(redisURL string) (*redis.Options, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.ClientName = constants.AppName
	options.MaxRetries = maxRetries
	options.ContextTimeoutEnabled = true

	if options.PoolSize == 0 {
		options.PoolSize = 10
	}
	if options.MinIdleConns == 0 {
		options.MinIdleConns = 2
	}
	if options.DialTimeout == 0 {
		options.DialTimeout = dialTimeout
	}
	if options.ReadTimeout == 0 {
		options.ReadTimeout = readTimeout
	}
	if options.WriteTimeout == 0 {
		options.WriteTimeout = writeTimeout
	}

	return options, nil
}

// NewClient connects to the cache at redisURL and pings it once.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: redis:// or rediss:// URL.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := cacheOptions(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_cache_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the cache answers within pingTimeout.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
