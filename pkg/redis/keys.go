package redis

import (
	"context"
	"time"
)

const (
	idempotencyPrefix = "idempotency"
	sessionPrefix     = "session"
)

// IdempotencyStore is what the idempotency middleware needs: a reservation
// via SetNX, the final record via Set, and Del to give a key back after a failure.
type IdempotencyStore interface {
	IdempotencyKey(scope, id string) string
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

func (c *Client) IdempotencyKey(scope, id string) string {
	return c.buildKey(idempotencyPrefix, scope, id)
}

// AccessSessionKey is keyed by the access token's jti.
func (c *Client) AccessSessionKey(accessID string) string {
	return c.buildKey(sessionPrefix, "access", accessID)
}

var _ IdempotencyStore = (*Client)(nil)
