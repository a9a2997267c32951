package apperror

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Body is the JSON error envelope returned to clients.
type Body struct {
	Error         string   `json:"error"`
	MissingFields []string `json:"missingFields,omitempty"`
	Details       string   `json:"details,omitempty"`
}

// StatusOf reports the status HTTPErrorHandler will write for err.
// Middleware that observes errors before the handler runs uses this to
// record the real status instead of the not-yet-written response's.
func StatusOf(err error) int {
	switch e := err.(type) {
	case *Error:
		return e.Status()
	case *echo.HTTPError:
		return e.Code
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorHandler returns an echo error handler that maps typed errors to
// their status and structured body. echo.HTTPError values pass through
// unchanged; anything else becomes a 500.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := Body{Error: "Internal server error"}

		switch e := err.(type) {
		case *Error:
			status = e.Status()
			body.Error = e.Message
			body.MissingFields = e.MissingFields
			if e.Err != nil {
				body.Details = e.Err.Error()
			}
		case *echo.HTTPError:
			status = e.Code
			if msg, ok := e.Message.(string); ok {
				body.Error = msg
			} else {
				body.Error = http.StatusText(e.Code)
			}
		default:
			body.Details = err.Error()
		}

		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
