package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker is a best-effort advisory lock. It serializes the
// cancel-then-insert sequence when scheduling an action and keeps two
// processes from draining the due-schedule queue at the same time.
type Locker interface {
	// Acquire takes the named lock for at most ttl. It returns false when
	// the lock is already held elsewhere. The release func is safe to call
	// more than once and only removes the lock if still owned.
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), acquired bool, err error)
}

// releaseScript deletes the key only when the token still matches, so an
// expired-and-reacquired lock is never released by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *redis.Client
	prefix string
}

// NewRedisLocker creates a Locker backed by Redis SET NX.
func NewRedisLocker(client *redis.Client) Locker {
	return &redisLocker{client: client, prefix: "lock:"}
}

func (l *redisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	key := l.prefix + name
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		_, _ = releaseScript.Run(context.Background(), l.client, []string{key}, token).Result()
	}
	return release, true, nil
}

// NoopLocker always grants the lock. Used when Redis is unavailable and
// in tests; callers fall back to the documented single-process contract.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}
