package apperror

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type errorBody struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo error handler that renders every error
// as {"error": message}. Typed errors keep their message and status;
// anything unclassified becomes a 500 with a generic message, logged with
// its cause.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"

		switch {
		case From(err) != nil:
			appErr := From(err)
			status = appErr.Kind.HTTPStatus()
			message = appErr.Message
			if appErr.Kind == Internal && appErr.Err != nil {
				log.Error().Err(appErr.Err).
					Str("path", c.Request().URL.Path).
					Msg("internal error")
			}
		default:
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
				if msg, ok := httpErr.Message.(string); ok {
					message = msg
				} else {
					message = http.StatusText(status)
				}
			} else {
				log.Error().Err(err).
					Str("path", c.Request().URL.Path).
					Msg("unhandled error")
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, errorBody{Error: message})
		}
		if writeErr != nil {
			log.Error().Err(writeErr).Msg("write error response")
		}
	}
}
