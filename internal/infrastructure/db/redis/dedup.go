package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDedupTTL = 24 * time.Hour
	dedupPrefix     = "dedup:notification:"
)

// DedupChecker suppresses repeated notifications backed by Redis.
// Key format: dedup:notification:<action>:<source_id>:<target_id>:<recipient_id>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
// Non-positive ttl falls back to defaultDedupTTL.
func NewDedupChecker(client *redis.Client, ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &DedupChecker{client: client, ttl: ttl}
}

// IsDuplicate reports whether key was marked within the window.
func (d *DedupChecker) IsDuplicate(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records key until the window elapses.
func (d *DedupChecker) Mark(ctx context.Context, key string) error {
	if err := d.client.Set(ctx, d.key(key), "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}
	return nil
}

func (d *DedupChecker) key(key string) string {
	return dedupPrefix + key
}
