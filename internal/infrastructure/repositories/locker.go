package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/you/booklib/domain"
)

// releaseScript deletes the lock only while it still carries our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements domain.Locker with SET NX PX entries
type RedisLocker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedisLocker creates a locker. ttl bounds how long a crashed holder keeps the lock,
// wait bounds how long Acquire blocks before failing with domain.ErrVerificationBusy.
func NewRedisLocker(client redis.UniversalClient, prefix string, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
	}
}

type redisLock struct {
	client redis.UniversalClient
	key    string
	token  string
}

// Acquire implements domain.Locker
func (l *RedisLocker) Acquire(parent context.Context, key string) (domain.Lock, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(parent, l.wait)
	defer cancel()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err == nil && ok {
			return &redisLock{client: l.client, key: fullKey, token: token}, nil
		}
		if err != nil && ctx.Err() == nil {
			return nil, err
		}

		select {
		case <-ctx.Done():
			if err := parent.Err(); err != nil {
				return nil, err
			}
			return nil, domain.ErrVerificationBusy
		case <-ticker.C:
		}
	}
}

// Release drops the lock if it is still ours
func (l *redisLock) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}

var _ domain.Locker = (*RedisLocker)(nil)
