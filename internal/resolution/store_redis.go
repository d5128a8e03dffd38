package resolution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps reviews in a single Redis hash so every API instance
// sees the same review state.  Field = conflict key, value = JSON review.
type RedisStore struct {
	rdb  *redis.Client
	hash string
}

// NewRedisStore returns a store writing to the hash "<prefix>:reviews".
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "stayboard"
	}
	return &RedisStore{rdb: rdb, hash: prefix + ":reviews"}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Review, bool, error) {
	raw, err := s.rdb.HGet(ctx, s.hash, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Review{}, false, nil
	}
	if err != nil {
		return Review{}, false, fmt.Errorf("resolution: get review %s: %w", key, err)
	}
	var rv Review
	if err := json.Unmarshal(raw, &rv); err != nil {
		return Review{}, false, fmt.Errorf("resolution: decode review %s: %w", key, err)
	}
	return rv, true, nil
}

func (s *RedisStore) Put(ctx context.Context, rv Review) error {
	raw, err := json.Marshal(rv)
	if err != nil {
		return fmt.Errorf("resolution: encode review %s: %w", rv.Key, err)
	}
	if err := s.rdb.HSet(ctx, s.hash, rv.Key, raw).Err(); err != nil {
		return fmt.Errorf("resolution: put review %s: %w", rv.Key, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Review, error) {
	all, err := s.rdb.HGetAll(ctx, s.hash).Result()
	if err != nil {
		return nil, fmt.Errorf("resolution: list reviews: %w", err)
	}
	out := make([]Review, 0, len(all))
	for key, raw := range all {
		var rv Review
		if err := json.Unmarshal([]byte(raw), &rv); err != nil {
			return nil, fmt.Errorf("resolution: decode review %s: %w", key, err)
		}
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
