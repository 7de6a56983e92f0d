package config

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis connects to the Redis instance pointed at by REDIS_URL
// (defaults to a local instance). The chat gateway keeps its per-session
// conversation state there.
func ConnectRedis() (*redis.Client, error) {
	redisURI := os.Getenv("REDIS_URL")
	if redisURI == "" {
		redisURI = "redis://localhost:6379/0"
	}

	opt, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("Redis connection established")
	return client, nil
}
