package lock

import (
	"context"
	"time"

	"turfslot/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "claimlock:"

// Deletes the key only while it still carries our owner token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Extends the key's expiry only while it still carries our owner token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type redisBackend struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client, ttl, wait time.Duration, log *logger.Logger) Locker {
	return &leaseLocker{
		backend: &redisBackend{client: client},
		ttl:     ttl,
		wait:    wait,
		log:     log,
	}
}

func (b *redisBackend) tryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return b.client.SetNX(ctx, redisKeyPrefix+key, owner, ttl).Result()
}

func (b *redisBackend) release(ctx context.Context, key, owner string) error {
	return releaseScript.Run(ctx, b.client, []string{redisKeyPrefix + key}, owner).Err()
}

func (b *redisBackend) renew(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	n, err := renewScript.Run(ctx, b.client, []string{redisKeyPrefix + key}, owner, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
