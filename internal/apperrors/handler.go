package apperrors

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the envelope every failed request gets.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewEchoHandler returns the boundary translator installed as echo's
// HTTPErrorHandler. Domain errors map to their status code; anything
// unrecognized becomes a generic 500. The underlying error detail is only
// echoed back outside production.
func NewEchoHandler(production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Server Error"

		if httpErr, ok := AsHTTPError(err); ok {
			status = httpErr.StatusCode
			message = httpErr.Message
		} else if echoErr, ok := err.(*echo.HTTPError); ok {
			status = echoErr.Code
			if m, ok := echoErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(echoErr.Code)
			}
		}

		resp := Response{Success: false, Message: message}
		if status == http.StatusInternalServerError {
			log.Printf("error: %v", err)
			if !production {
				resp.Error = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}
