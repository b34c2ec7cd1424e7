package session

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// SinkOption is a functional option for configuring a sink.
type SinkOption func(*sinkConfig)

// sinkConfig holds configuration for sinks.
type sinkConfig struct {
	path        string
	redisClient *redis.Client
	redisTTL    time.Duration
	keyPrefix   string
}

// WithPath sets the output file of the file sink.
func WithPath(path string) SinkOption {
	return func(c *sinkConfig) {
		c.path = path
	}
}

// WithRedisClient sets the Redis client for the Redis sink.
func WithRedisClient(client *redis.Client) SinkOption {
	return func(c *sinkConfig) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the TTL for Redis keys. Zero keeps keys forever.
func WithRedisTTL(ttl time.Duration) SinkOption {
	return func(c *sinkConfig) {
		c.redisTTL = ttl
	}
}

// WithKeyPrefix sets the Redis key prefix.
func WithKeyPrefix(prefix string) SinkOption {
	return func(c *sinkConfig) {
		c.keyPrefix = prefix
	}
}
