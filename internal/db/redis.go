package db

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient creates a redis client for the task-list cache and pings
// it to make sure the connection is established. The address comes from
// config, not from the environment, so tests can point it anywhere.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
