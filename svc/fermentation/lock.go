package fermentation

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Locker serialises writes per fermentation batch. The returned function
// releases the lock.
//
// redis.Locker satisfies this interface for multi-process deployments.
type Locker interface {
	Lock(ctx context.Context, key string) (func(context.Context) error, error)
}

// MemoryLocker is a process-local Locker.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]chan struct{})}
}

func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	for {
		l.mu.Lock()
		held, busy := l.locks[key]
		if !busy {
			ch := make(chan struct{})
			l.locks[key] = ch
			l.mu.Unlock()

			var once sync.Once
			return func(context.Context) error {
				once.Do(func() {
					l.mu.Lock()
					delete(l.locks, key)
					l.mu.Unlock()
					close(ch)
				})
				return nil
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-held:
		}
	}
}

func lockKey(fermentationID uuid.UUID) string {
	return "fermentation:" + fermentationID.String()
}
