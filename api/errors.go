package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/exp/slog"
)

// APIError is the JSON body of a failed API request.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 Bad Request error.
func NewBadRequestError(message string, cause error) *APIError {
	return newError(http.StatusBadRequest, "BAD_REQUEST", message, cause)
}

// NewMissingFileError creates a 400 error for a request without an upload in
// the given form field.
func NewMissingFileError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "MISSING_FILE",
		Message: fmt.Sprintf("missing upload in form field %q", field),
	}
}

// NewUnprocessableError creates a 422 error for uploads that were read but
// produced nothing to return.
func NewUnprocessableError(code, message string) *APIError {
	return newError(http.StatusUnprocessableEntity, code, message, nil)
}

// NewInternalError creates a 500 Internal Server Error.
func NewInternalError(message string, cause error) *APIError {
	return newError(http.StatusInternalServerError, "INTERNAL_ERROR", message, cause)
}

func newError(status int, code, message string, cause error) *APIError {
	err := &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// ErrorHandler returns an [echo.HTTPErrorHandler] that writes errors as
// [APIError] JSON bodies. Errors that are neither an APIError nor an
// [echo.HTTPError] are logged and hidden behind a generic message.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			apiErr  *APIError
			httpErr *echo.HTTPError
		)

		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &httpErr):
			apiErr = &APIError{
				Status:  httpErr.Code,
				Code:    "HTTP_ERROR",
				Message: fmt.Sprintf("%v", httpErr.Message),
			}
		default:
			log.Error("Unhandled error", "error", err, "uri", c.Request().RequestURI)
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    "UNKNOWN_ERROR",
				Message: "An unexpected error occurred",
			}
		}

		if apiErr.Status >= http.StatusInternalServerError {
			log.Error("Request failed", "code", apiErr.Code, "message", apiErr.Message, "details", apiErr.Details)
		}

		if c.Request().Method == http.MethodHead {
			c.NoContent(apiErr.Status)
			return
		}

		c.JSON(apiErr.Status, apiErr)
	}
}
