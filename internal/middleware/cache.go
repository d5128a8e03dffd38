package middleware

import (
    "bytes"
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/stayboard/internal/config"
)

// RoomCache keeps the JSON of GET /v1/rooms and GET /v1/rooms/:id in Redis.
// Rooms are maintained outside the desk, so the copies expire after the
// TTL and are purged when the server starts.  A nil *RoomCache or a nil
// client disables it.
type RoomCache struct {
    rdb *redis.Client
    cfg config.CacheConfig
}

func NewRoomCache(cfg config.CacheConfig, rdb *redis.Client) *RoomCache {
    if !cfg.Enabled || rdb == nil {
        return nil
    }
    return &RoomCache{rdb: rdb, cfg: cfg}
}

// roomKey is <prefix>:rooms for the catalog and <prefix>:rooms:<id> for
// one room.
func roomKey(prefix string, c echo.Context) string {
    if id := c.Param("id"); id != "" {
        return prefix + ":rooms:" + id
    }
    return prefix + ":rooms"
}

type bodyTee struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
}

func (w *bodyTee) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

func (w *bodyTee) Write(b []byte) (int, error) {
    w.buf.Write(b)
    return w.ResponseWriter.Write(b)
}

// Middleware serves cached room JSON and stores successful answers.
// "Cache-Control: no-cache" skips the lookup but refreshes the copy.
func (rc *RoomCache) Middleware() echo.MiddlewareFunc {
    if rc == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            ctx := c.Request().Context()
            key := roomKey(rc.cfg.Prefix, c)

            if !wantsFresh(c.Request()) {
                if body, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.JSONBlob(http.StatusOK, body)
                }
            }

            tee := &bodyTee{ResponseWriter: c.Response().Writer, status: http.StatusOK}
            c.Response().Writer = tee
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if tee.status == http.StatusOK && tee.buf.Len() > 0 {
                if err := rc.rdb.Set(context.WithoutCancel(ctx), key, tee.buf.Bytes(), rc.cfg.TTL).Err(); err != nil {
                    c.Logger().Warnf("cache: store %s: %v", key, err)
                }
            }
            return nil
        }
    }
}

// Purge drops every cached room.
func (rc *RoomCache) Purge(ctx context.Context) error {
    if rc == nil {
        return nil
    }
    var keys []string
    iter := rc.rdb.Scan(ctx, 0, rc.cfg.Prefix+":rooms*", 100).Iterator()
    for iter.Next(ctx) {
        keys = append(keys, iter.Val())
    }
    if err := iter.Err(); err != nil {
        return err
    }
    if len(keys) == 0 {
        return nil
    }
    return rc.rdb.Del(ctx, keys...).Err()
}

func wantsFresh(r *http.Request) bool {
    return strings.Contains(strings.ToLower(r.Header.Get("Cache-Control")), "no-cache")
}
