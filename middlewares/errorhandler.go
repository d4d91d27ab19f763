package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/taskmanager/internal"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONErrorHandler returns an ErrorHandler that renders {"error": message}.
//
// HTTPErrors keep their status code and message. Timeouts become 504.
// Anything else becomes 500 with a generic message and is logged together
// with the request ID, so internal details never reach the client.
func JSONErrorHandler() internal.ErrorHandler {
	return func(c internal.Context, err error) error {
		code, msg := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)

		switch he := internal.AsHTTPError(err); {
		case he != nil:
			code, msg = he.Code, he.Message
			if msg == "" {
				msg = http.StatusText(code)
			}
		case IsTimeoutError(err):
			code, msg = http.StatusGatewayTimeout, http.StatusText(http.StatusGatewayTimeout)
		}

		if code >= http.StatusInternalServerError {
			c.LogError("request failed",
				"error", err,
				"status", code,
				"request_id", GetRequestID(c),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
			)
		}

		return c.JSON(code, ErrorResponse{Error: msg})
	}
}
