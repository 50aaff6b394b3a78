package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Msg
	}

	// Known domain errors → deterministic HTTP codes. Credential and
	// recovery failures keep their generic messages; domain and ban
	// failures are actionable and surfaced verbatim.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrDomainNotRegistered):
		return http.StatusUnprocessableEntity, domain.ErrDomainNotRegistered.Error()
	case errors.Is(err, domain.ErrAccountBanned):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrInvalidRecovery):
		return http.StatusBadRequest, domain.ErrInvalidRecovery.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "email or index number already registered"
	case errors.Is(err, domain.ErrInstitutionNotFound):
		return http.StatusNotFound, "institution not found"
	case errors.Is(err, domain.ErrDomainTaken):
		return http.StatusConflict, domain.ErrDomainTaken.Error()
	case errors.Is(err, domain.ErrInstitutionInUse):
		return http.StatusConflict, domain.ErrInstitutionInUse.Error()
	case errors.Is(err, domain.ErrRequestNotFound):
		return http.StatusNotFound, "institution request not found"
	case errors.Is(err, domain.ErrRequestDecided):
		return http.StatusConflict, domain.ErrRequestDecided.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
