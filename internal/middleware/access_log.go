package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
)

// NewAccessLog writes one line per request through the echo logger:
// method, route, status, latency and request id.  When disabled it returns a
// pass-through middleware so callers can always Use() it.
func NewAccessLog(enabled bool) echo.MiddlewareFunc {
    if !enabled {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                // let the error handler write the final status before logging it
                c.Error(err)
            }

            status := c.Response().Status
            c.Logger().Infof("%s %s status=%d latency=%s request_id=%s remote=%s",
                c.Request().Method, routeOf(c), status, time.Since(start), requestID(c), c.RealIP())
            return nil
        }
    }
}

// routeOf prefers the registered route pattern so log lines group cleanly.
func routeOf(c echo.Context) string {
    if p := c.Path(); p != "" {
        return p
    }
    return c.Request().URL.Path
}

// requestID returns the id assigned by echo's RequestID middleware, falling
// back to the id the client sent, or "-" when neither exists.
func requestID(c echo.Context) string {
    if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
        return id
    }
    if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
        return id
    }
    return "-"
}
