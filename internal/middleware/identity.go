package middleware

// identity.go reads back what JWTAuth stored on the context.  Handlers use
// Actor to stamp holds, reviews and audit entries; the rate limiter uses
// actorKey to bucket requests per operator.

import (
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"
)

// OperatorID returns the authenticated operator id, or 0.
func OperatorID(c echo.Context) uint64 {
    switch v := c.Get(CtxOperatorID).(type) {
    case uint64:
        return v
    case int64:
        return uint64(v)
    case int:
        return uint64(v)
    case float64:
        return uint64(v)
    case string:
        if n, err := strconv.ParseUint(v, 10, 64); err == nil {
            return n
        }
    }
    return 0
}

// Role returns the upper-cased role claim, or "".
func Role(c echo.Context) string {
    s, _ := c.Get(CtxRole).(string)
    return strings.ToUpper(s)
}

// Actor names the operator behind the request: the display name from the
// token, or "operator-<id>" when the token carries none.
func Actor(c echo.Context) string {
    if s, ok := c.Get(CtxOperatorName).(string); ok && strings.TrimSpace(s) != "" {
        return strings.TrimSpace(s)
    }
    if id := OperatorID(c); id != 0 {
        return "operator-" + strconv.FormatUint(id, 10)
    }
    return "anonymous"
}

// actorKey is the stable per-operator component of rate limit keys.
func actorKey(c echo.Context) string {
    if id := OperatorID(c); id != 0 {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}
