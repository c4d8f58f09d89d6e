package middleware

import (
	"caseLibrary/domain"
	"caseLibrary/pkg/logger"
	"caseLibrary/pkg/trace"
	"errors"
	"fmt"
	"net/http"
	"strings"

	jsonres "caseLibrary/pkg/response"

	"github.com/labstack/echo/v4"
)

// StatusFor maps an error kind to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrTransaction):
		return http.StatusInternalServerError, "TRANSACTION_FAILED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// ErrorHandler is the echo HTTPErrorHandler. Domain errors keep their message;
// server faults are logged and answered with a generic one.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status  int
		code    string
		message string
	)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		code = strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_"))
		message = fmt.Sprint(he.Message)
	} else {
		status, code = StatusFor(err)
		message = domain.Message(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"trace_id", trace.TraceIDFromContext(c.Request().Context()),
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
			if errors.Is(err, domain.ErrTransaction) {
				message = "please try again"
			} else {
				message = "internal server error"
			}
		}
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, jsonres.Error(code, message, nil))
	}
	if writeErr != nil {
		logger.Error("failed to write error response", "error", writeErr)
	}
}
