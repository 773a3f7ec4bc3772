package redis

import (
	"context"
	"errors"
	"time"
)

const feedLockPrefix = "feed_lock"

// releaseLockScript deletes the lock only while it still holds the caller's token.
const releaseLockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`

// ErrLockNotHeld is returned by ReleaseLock when the lock expired or was taken over.
var ErrLockNotHeld = errors.New("lock not held")

// FeedLockKey serializes catalog imports for one shop owner.
func (c *Client) FeedLockKey(userID string) string {
	return c.buildKey(feedLockPrefix, userID)
}

func (c *Client) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, errors.New("lock ttl must be positive")
	}
	return c.SetNX(ctx, key, token, ttl)
}

func (c *Client) ReleaseLock(ctx context.Context, key, token string) error {
	if c.store == nil {
		return errNotInitialized
	}
	deleted, err := c.store.Eval(ctx, releaseLockScript, []string{key}, token).Int64()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrLockNotHeld
	}
	return nil
}
