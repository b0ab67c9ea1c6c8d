package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse is returned by endpoints that have no resource to echo back.
type MessageResponse struct {
	Message string `json:"message"`
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}

// SendError maps an error kind to its HTTP status and writes the error body.
// Internal details of 5xx errors are logged and replaced with a generic message.
func SendError(c echo.Context, err error) error {
	var (
		verr  *ValidationError
		nferr *NotFoundError
		cerr  *ConflictError
		herr  *echo.HTTPError
	)

	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Message, Details: verr.Fields})
	case errors.As(err, &nferr):
		return SendNotFoundError(c, nferr.Resource)
	case errors.As(err, &cerr):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: cerr.Message})
	case errors.As(err, &herr):
		msg := http.StatusText(herr.Code)
		if s, ok := herr.Message.(string); ok {
			msg = s
		}
		return c.JSON(herr.Code, ErrorResponse{Error: msg})
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")
	return SendServerError(c, "Internal server error")
}

// HTTPErrorHandler is installed as echo's error handler so that errors returned
// from handlers and middleware share the same body format.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		if sendErr := c.NoContent(statusFor(err)); sendErr != nil {
			log.Error().Err(sendErr).Msg("failed to send error response")
		}
		return
	}
	if sendErr := SendError(c, err); sendErr != nil {
		log.Error().Err(sendErr).Msg("failed to send error response")
	}
}

func statusFor(err error) int {
	var herr *echo.HTTPError
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.As(err, &herr):
		return herr.Code
	default:
		return http.StatusInternalServerError
	}
}
