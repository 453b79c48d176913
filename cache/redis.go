// Package cache manages the Redis client used for rate limiting and health checks.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// InitRedis connects to Redis at the given address. The connection is
// optional: on failure the client is left nil and dependent features
// (rate limiting) fail open.
func InitRedis(addr string) {
	client = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis connection failed; continuing without rate limiting", "error", err)
		client = nil
	} else {
		slog.Info("redis connected")
	}
}

// GetClient returns the shared Redis client, or nil if Redis is unavailable.
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection if one was established.
func Close() {
	if client != nil {
		if err := client.Close(); err != nil {
			slog.Error("error closing redis", "error", err)
		}
		client = nil
	}
}
