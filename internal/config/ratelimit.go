package config

import "time"

// RateLimitConfig caps how many writes one operator may send against one
// room (or one route, when the request names no room) per window.  Reads
// are never limited.
type RateLimitConfig struct {
    Enabled bool
    Writes  int
    Window  time.Duration
    Prefix  string
}

func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled: envBool("RATE_LIMIT_ENABLED", true),
        Writes:  envInt("RATE_LIMIT_WRITES", 30),
        Window:  envDur("RATE_LIMIT_WINDOW", time.Minute),
        Prefix:  envStr("RATE_LIMIT_PREFIX", RedisPrefix()+":rl"),
    }
    if cfg.Writes < 1 {
        cfg.Writes = 1
    }
    if cfg.Window < time.Second {
        cfg.Window = time.Second
    }
    return cfg
}
