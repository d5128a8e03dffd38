package lock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/stayboard/internal/config"
)

// Only the owner's token may delete the key.
var releaseScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// Redis is a Locker shared by every API instance.  A lock is a key
// "<prefix>:room:<id>" set with NX and a TTL so a crashed holder cannot
// block the room forever.
type Redis struct {
	rdb *redis.Client
	cfg config.LockConfig
}

func NewRedis(rdb *redis.Client, cfg config.LockConfig) *Redis {
	return &Redis{rdb: rdb, cfg: cfg}
}

func (r *Redis) key(roomID string) string {
	return r.cfg.Prefix + ":room:" + roomID
}

func (r *Redis) Lock(ctx context.Context, roomID string) (func(), error) {
	key := r.key(roomID)
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Wait)
	defer cancel()

	tick := time.NewTicker(r.cfg.RetryEvery)
	defer tick.Stop()
	for {
		ok, err := r.rdb.SetNX(ctx, key, token, r.cfg.TTL).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("lock: acquire %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, roomID)
		case <-tick.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, r.rdb, []string{key}, token).Err(); err != nil {
				log.Printf("lock: release %s: %v", key, err)
			}
		})
	}, nil
}

// New returns the Redis locker when a client is available and the
// in-process one otherwise.
func New(rdb *redis.Client, cfg config.LockConfig) Locker {
	if rdb == nil || !cfg.Distributed {
		return NewLocal()
	}
	return NewRedis(rdb, cfg)
}
