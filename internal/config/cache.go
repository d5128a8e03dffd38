package config

import "time"

// CacheConfig drives the Redis copy of the room catalog.  Only rooms are
// cached: bookings, holds and conflicts must always come from the current
// snapshot.
type CacheConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
}

func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled: envBool("CACHE_ENABLED", true),
        TTL:     envDur("CACHE_TTL", 5*time.Minute),
        Prefix:  envStr("CACHE_PREFIX", RedisPrefix()+":cache"),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 5 * time.Minute
    }
    return cfg
}
