package database

import (
	"context"
	"time"

	"experience-market/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis. It returns nil when the server cannot be
// reached so callers can run without the features that depend on it.
func InitRedis(config utils.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}

	return client
}
