package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out per-key locks stored in Redis.
type Locker struct {
	client     redis.UniversalClient
	prefix     string
	ttl        time.Duration
	retryDelay time.Duration
}

// LockerOption configures a Locker.
type LockerOption func(*Locker)

// WithLockTTL sets the lock expiry. Non-positive values are ignored.
func WithLockTTL(ttl time.Duration) LockerOption {
	return func(l *Locker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithLockRetryDelay sets the pause between acquisition attempts. Non-positive values are ignored.
func WithLockRetryDelay(d time.Duration) LockerOption {
	return func(l *Locker) {
		if d > 0 {
			l.retryDelay = d
		}
	}
}

// WithLockKeyPrefix namespaces lock keys.
func WithLockKeyPrefix(prefix string) LockerOption {
	return func(l *Locker) {
		l.prefix = prefix
	}
}

// WithLockConfig applies the lock settings of cfg.
func WithLockConfig(cfg Config) LockerOption {
	return func(l *Locker) {
		WithLockTTL(cfg.LockTTL)(l)
		WithLockRetryDelay(cfg.LockRetryDelay)(l)
		if cfg.LockKeyPrefix != "" {
			l.prefix = cfg.LockKeyPrefix
		}
	}
}

func NewLocker(client redis.UniversalClient, opts ...LockerOption) *Locker {
	l := &Locker{
		client:     client,
		prefix:     "winery:lock:",
		ttl:        30 * time.Second,
		retryDelay: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TTL returns the lock expiry.
func (l *Locker) TTL() time.Duration {
	return l.ttl
}

// Key returns the Redis key used for the given lock name.
func (l *Locker) Key(name string) string {
	return l.prefix + name
}

// Lock blocks until the lock for name is acquired or ctx is done.
// The returned function releases the lock; it reports ErrLockNotHeld when the
// lock had already expired or was taken over.
func (l *Locker) Lock(ctx context.Context, name string) (func(context.Context) error, error) {
	key := l.Key(name)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, errors.Join(ErrLockNotAcquired, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrLockNotAcquired, ctx.Err())
		case <-time.After(l.retryDelay):
		}
	}

	return func(ctx context.Context) error {
		n, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int64()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrLockNotHeld
		}
		return nil
	}, nil
}
