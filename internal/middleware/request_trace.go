package middleware

import (
	"caseLibrary/pkg/trace"

	"github.com/labstack/echo/v4"
)

// RequestTrace copies the request id into the request context as the trace id.
// It must run after echo's RequestID middleware.
func RequestTrace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			if rid != "" {
				ctx := trace.WithTraceID(c.Request().Context(), rid)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}
