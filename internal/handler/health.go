package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// Check probes one backing service.
type Check func(ctx context.Context) error

// Health is the health-check endpoint used by load balancers.  It answers
// 200 with the state of each dependency, or 503 when a required one is
// down.  Optional dependencies (Redis, the broker) only report "down".
func Health(required, optional map[string]Check) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()

        status := http.StatusOK
        deps := map[string]string{}
        for name, check := range required {
            if err := check(ctx); err != nil {
                deps[name] = "down"
                status = http.StatusServiceUnavailable
                continue
            }
            deps[name] = "up"
        }
        for name, check := range optional {
            if check == nil {
                deps[name] = "disabled"
                continue
            }
            if err := check(ctx); err != nil {
                deps[name] = "down"
                continue
            }
            deps[name] = "up"
        }
        state := "ok"
        if status != http.StatusOK {
            state = "degraded"
        }
        return c.JSON(status, echo.Map{"status": state, "deps": deps})
    }
}
