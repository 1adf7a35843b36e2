package shared

import (
	"context"
	"time"
)

// IdempotencyStore records keys that were already acted on. The event bus
// stores event IDs in it and the HTTP layer stores Idempotency-Key headers,
// each under its own key namespace.
type IdempotencyStore interface {
	// MarkProcessed records key for ttl. It returns false when key was
	// already recorded and has not expired.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	Close() error
}

// EventKey is the store key under which a delivered event is recorded
func EventKey(event DomainEvent) string {
	return "event:" + event.EventID().String()
}

// RequestKey is the store key for a client Idempotency-Key. route is the
// registered pattern and path the concrete URL, so the same client key may
// be reused against another resource.
func RequestKey(method, route, path, clientKey string) string {
	return method + ":" + route + ":" + path + ":" + clientKey
}

// IdempotencyConfig controls event deduplication
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig remembers events for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{TTL: 24 * time.Hour, Enabled: true}
}
