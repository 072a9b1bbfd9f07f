package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// liberarScript deletes the lock only if it still holds our token, so an
// expired lock re-acquired by another process is never released by us.
var liberarScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// AdquirirLock takes key with SET NX and a TTL. It returns false when another
// holder owns the lock.
func AdquirirLock(ctx context.Context, rdb *redis.Client, key, token string, ttl time.Duration) (bool, error) {
	return rdb.SetNX(ctx, key, token, ttl).Result()
}

// LiberarLock releases key if token still owns it.
func LiberarLock(ctx context.Context, rdb *redis.Client, key, token string) error {
	return liberarScript.Run(ctx, rdb, []string{key}, token).Err()
}
