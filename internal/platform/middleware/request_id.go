// Package middleware holds the HTTP middlewares shared by every route:
// request IDs, structured request logging, panic recovery, security
// headers, body limits, and rate limiting.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDKey = "request_id"

// RequestID attaches a UUID to every request, honoring an X-Request-ID
// header when the client supplies one. The ID is echoed back in the
// response and picked up by the request logger.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set(requestIDKey, rid)
			c.Response().Header().Set(echo.HeaderXRequestID, rid)
			return next(c)
		}
	}
}
