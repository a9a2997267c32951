package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/pkg/apperror"
)

// Recovery turns a handler panic into an internal error so the central
// error handler can render it, instead of the process dying mid-request.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error().
						Str("request_id", requestID(c)).
						Str("method", c.Request().Method).
						Str("path", c.Request().URL.Path).
						Bytes("stack", debug.Stack()).
						Msgf("panic recovered: %v", r)

					err = apperror.Internal("Internal server error", fmt.Errorf("panic: %v", r))
				}
			}()
			return next(c)
		}
	}
}
