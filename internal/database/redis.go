package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 10 * time.Second

// RedisClients keeps preview storage and session event pub/sub on separate
// connections so long-lived subscriptions never hold up preview reads.
type RedisClients struct {
	Store  *redis.Client
	PubSub *redis.Client
}

func NewRedisClients(ctx context.Context, redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	pubsubOpt := *opt
	clients := &RedisClients{
		Store:  redis.NewClient(opt),
		PubSub: redis.NewClient(&pubsubOpt),
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := clients.Ping(ctx); err != nil {
		clients.Close()
		return nil, err
	}
	return clients, nil
}

// Ping checks both connections. It backs the health endpoint.
func (r *RedisClients) Ping(ctx context.Context) error {
	if err := r.Store.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis (previews): %w", err)
	}
	if err := r.PubSub.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis (events): %w", err)
	}
	return nil
}

func (r *RedisClients) Close() {
	r.Store.Close()
	r.PubSub.Close()
}
