package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned when another holder owns the lock.
var ErrLocked = errors.New("lock is held by another process")

// Locker hands out short lived redis locks. Without a client every Obtain succeeds.
type Locker struct {
	client *redislock.Client
	prefix string
}

func NewLocker(rdb *redis.Client, prefix string) *Locker {
	l := &Locker{prefix: prefix}
	if rdb != nil {
		l.client = redislock.New(rdb)
	}
	return l
}

// Obtain takes the lock named key for at most ttl. Callers must invoke the
// returned release func once done.
func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if l == nil || l.client == nil {
		return func() {}, nil
	}
	lock, err := l.client.Obtain(ctx, l.prefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLocked
	}
	if err != nil {
		return nil, err
	}
	return func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}, nil
}
