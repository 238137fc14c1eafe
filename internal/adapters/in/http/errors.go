package http

import (
	"errors"
	"log/slog"
	"net/http"

	"logistics/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      int      `json:"code"`
	Kind      string   `json:"kind"`
	Message   string   `json:"message"`
	Current   string   `json:"current,omitempty"`
	Requested string   `json:"requested,omitempty"`
	Allowed   []string `json:"allowed,omitempty"`
}

func newErrorResponse(code int, kind, message string) ErrorResponse {
	return ErrorResponse{Code: code, Kind: kind, Message: message}
}

var statusByKind = map[string]int{
	"validation":          http.StatusBadRequest,
	"invalid_transition":  http.StatusConflict,
	"not_found":           http.StatusNotFound,
	"unauthorized":        http.StatusForbidden,
	"already_assigned":    http.StatusConflict,
	"already_final":       http.StatusConflict,
	"no_branch_available": http.StatusUnprocessableEntity,
	"version_conflict":    http.StatusConflict,
}

// StatusCode maps a core error to its HTTP status.
func StatusCode(err error) int {
	if code, ok := statusByKind[errs.Kind(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func (s *Server) respondError(c echo.Context, err error) error {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		return c.JSON(code, newErrorResponse(code, "internal", http.StatusText(code)))
	}

	body := newErrorResponse(code, errs.Kind(err), err.Error())
	var transition *errs.InvalidTransitionError
	if errors.As(err, &transition) {
		body.Current = transition.Current
		body.Requested = transition.Requested
		body.Allowed = transition.Allowed
	}
	return c.JSON(code, body)
}

// HTTPErrorHandler renders echo's own errors (unknown route, bad JSON) in the
// ErrorResponse shape.
func HTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		} else {
			logger.ErrorContext(c.Request().Context(), "unhandled error", "path", c.Path(), "error", err)
		}

		kind := "internal"
		switch code {
		case http.StatusBadRequest:
			kind = "validation"
		case http.StatusNotFound:
			kind = "not_found"
		case http.StatusUnauthorized:
			kind = "unauthenticated"
		case http.StatusMethodNotAllowed:
			kind = "method_not_allowed"
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, newErrorResponse(code, kind, message))
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "error response not written", "error", err)
		}
	}
}
