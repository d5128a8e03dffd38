package middleware

import (
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/stayboard/internal/config"
)

// windowScript counts one write in a fixed window and returns the count and
// the milliseconds left in the window.
var windowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('PTTL', KEYS[1])}
`)

// NewWriteLimiter caps desk writes per operator and room in Redis, so all
// API instances share the budget.  Reads pass through.  Without Redis, or
// when disabled, it does nothing; Redis errors fail open.
func NewWriteLimiter(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    window := cfg.Window.Milliseconds()

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if isRead(c.Request().Method) {
                return next(c)
            }
            key := cfg.Prefix + ":" + actorKey(c) + ":" + writeScope(c)
            res, err := windowScript.Run(c.Request().Context(), rdb, []string{key}, window).Int64Slice()
            if err != nil || len(res) != 2 {
                c.Logger().Warnf("ratelimit: %s not counted: %v", key, err)
                return next(c)
            }
            used, leftMs := res[0], res[1]

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Writes))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(cfg.Writes)-used), 10))
            if used <= int64(cfg.Writes) {
                return next(c)
            }
            retry := int((time.Duration(leftMs)*time.Millisecond + time.Second - 1) / time.Second)
            h.Set("Retry-After", strconv.Itoa(retry))
            return c.JSON(http.StatusTooManyRequests, echo.Map{
                "error":       "too many writes on this room, slow down",
                "retry_after": retry,
            })
        }
    }
}

// writeScope is the room a write touches when the path says so (conflict
// keys start with the room id), otherwise the route.
func writeScope(c echo.Context) string {
    if key := c.Param("key"); key != "" {
        if i := strings.IndexByte(key, ':'); i > 0 {
            return "room:" + key[:i]
        }
    }
    return "route:" + c.Request().Method + " " + c.Path()
}

func isRead(method string) bool {
    return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
