package redis

import (
	"context"
	"time"

	"click-collectible-service/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewClient builds the Redis client that backs the realtime broadcaster's
// per-user pub/sub channels.
func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     cfg.Redis.PoolSize,
		MaxRetries:   3,
	})
}

// PingRedis verifies the connection before the broadcaster starts using it
func PingRedis(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return client.Ping(ctx).Err()
}
