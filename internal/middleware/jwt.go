package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stayboard/internal/utils"
)

// Context keys set by JWTAuth.
const (
    CtxOperatorID   = "user_id"
    CtxRole         = "role"
    CtxOperatorName = "operator_name"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the operator id, role and display name into the request context.
// Handlers read them back with OperatorID, Role and Actor.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

            claims, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set(CtxOperatorID, claims.OperatorID)
            c.Set(CtxRole, claims.Role)
            c.Set(CtxOperatorName, claims.Name)
            return next(c)
        }
    }
}
