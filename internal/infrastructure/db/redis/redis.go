package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 5 * time.Second

// Config holds the connection settings and the notification dedup window.
type Config struct {
	Addr        string
	DB          int
	PingTimeout time.Duration
	DedupTTL    time.Duration
}

// Store bundles the Redis client with the notification dedup guard built on it.
type Store struct {
	Client *redis.Client
	Dedup  *DedupChecker
}

// Open connects to Redis, verifies the server answers a ping and prepares the
// dedup guard. Zero durations fall back to their defaults.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return &Store{
		Client: client,
		Dedup:  NewDedupChecker(client, cfg.DedupTTL),
	}, nil
}

func (s *Store) Close() error {
	return s.Client.Close()
}
