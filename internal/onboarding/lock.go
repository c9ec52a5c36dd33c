package onboarding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/semaphore"
)

// Lock is the per-session "submitting" flag. TryLock never blocks: a second
// caller gets false while the first one holds the key. Each acquisition gets
// its own token and Unlock only releases the holder that token names.
type Lock interface {
	TryLock(ctx context.Context, key string) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
	Locked(ctx context.Context, key string) (bool, error)
}

type localHold struct {
	sem   *semaphore.Weighted
	token string
}

// LocalLock keeps one single-permit semaphore per held key in process memory.
// Entries are dropped on release.
type LocalLock struct {
	mu    sync.Mutex
	holds map[string]localHold
}

// NewLocalLock builds an in-process submit guard.
func NewLocalLock() *LocalLock {
	return &LocalLock{holds: make(map[string]localHold)}
}

// TryLock acquires key's permit if it is free.
func (l *LocalLock) TryLock(_ context.Context, key string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.holds[key]; busy {
		return "", false, nil
	}
	sem := semaphore.NewWeighted(1)
	if !sem.TryAcquire(1) {
		return "", false, nil
	}
	h := localHold{sem: sem, token: uuid.NewString()}
	l.holds[key] = h
	return h.token, true, nil
}

// Unlock releases key when token matches the current holder. Anything else
// is a no-op.
func (l *LocalLock) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.holds[key]
	if !ok || h.token != token {
		return nil
	}
	h.sem.Release(1)
	delete(l.holds, key)
	return nil
}

// Locked reports whether key is currently held.
func (l *LocalLock) Locked(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.holds[key]
	return ok, nil
}

func (l *LocalLock) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.holds)
}

const submitLockPrefix = "onboarding:submit:v1:"

// releaseScript deletes the marker only if it still carries the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock shares the guard across API replicas with a SET NX marker. The
// TTL bounds how long a crashed holder can block a session.
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLock builds a Redis-backed submit guard.
func NewRedisLock(client *redis.Client, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLock{client: client, ttl: ttl}
}

// TryLock reserves key with SET NX under a fresh token.
func (l *RedisLock) TryLock(ctx context.Context, key string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, submitLockPrefix+key, token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("reserve submit lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Unlock deletes the marker if token still owns it. A marker that expired
// and was taken by another caller is left alone.
func (l *RedisLock) Unlock(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{submitLockPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("release submit lock: %w", err)
	}
	return nil
}

// Locked reports whether the marker exists.
func (l *RedisLock) Locked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Exists(ctx, submitLockPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("check submit lock: %w", err)
	}
	return n > 0, nil
}
