package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionLocker holds the per-session in-flight flag for chat turns.
type SessionLocker interface {
	// Acquire returns ok=false when another turn for key is still running.
	Acquire(ctx context.Context, key string) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

type RedisSessionLock struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisSessionLock(client *redis.Client, ttl time.Duration) *RedisSessionLock {
	if ttl <= 0 {
		ttl = 90 * time.Second
	}
	return &RedisSessionLock{client: client, ttl: ttl, prefix: "interview:inflight:"}
}

func (l *RedisSessionLock) Acquire(ctx context.Context, key string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release only deletes the flag if it still holds token, so an expired and
// re-acquired flag is never removed by the previous holder.
func (l *RedisSessionLock) Release(ctx context.Context, key, token string) error {
	if err := l.client.Eval(ctx, releaseScript, []string{l.prefix + key}, token).Err(); err != nil {
		return fmt.Errorf("release session lock: %w", err)
	}
	return nil
}
