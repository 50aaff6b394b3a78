package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusfolio/portfolio-api/internal/api/metrics"
	"github.com/campusfolio/portfolio-api/internal/core/domain"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
)

const (
	claimsKey = "session_claims"

	// RefreshHeader forces a claim resynchronization for this request,
	// e.g. right after a profile edit.
	RefreshHeader = "X-Refresh-Claims"

	// TokenHeader carries a replacement token back to the client whenever
	// the embedded claims were resynchronized.
	TokenHeader = "X-Session-Token"
)

// Session resolves the caller's claims for every request. A request without
// a bearer token simply proceeds anonymously; the guards decide whether
// that is acceptable. A request with a token gets its cached claims
// validated and, when stale or explicitly asked for, resynchronized from
// the credential store; the rotated token is returned in TokenHeader.
func Session(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request())
			if raw == "" {
				return next(c)
			}

			cached, err := sessions.Parse(raw)
			if err != nil {
				// An unverifiable token is treated as no session at all.
				metrics.SessionsRejectedTotal.WithLabelValues("invalid_token").Inc()
				return next(c)
			}

			force := c.Request().Header.Get(RefreshHeader) != ""
			switch {
			case cached.Name == "":
				metrics.ClaimResyncsTotal.WithLabelValues("first_seen").Inc()
			case force:
				metrics.ClaimResyncsTotal.WithLabelValues("forced").Inc()
			}

			claims, rotated, err := sessions.Refresh(c.Request().Context(), *cached, force)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrAccountBanned):
					metrics.SessionsRejectedTotal.WithLabelValues("banned").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
				case errors.Is(err, domain.ErrUserNotFound):
					metrics.SessionsRejectedTotal.WithLabelValues("gone").Inc()
					return next(c) // account deleted: proceed anonymously
				default:
					return err
				}
			}

			if rotated != "" {
				if !force && cached.Name != "" {
					metrics.ClaimResyncsTotal.WithLabelValues("ttl").Inc()
				}
				c.Response().Header().Set(TokenHeader, rotated)
			}

			c.Set(claimsKey, &claims)
			return next(c)
		}
	}
}

// CurrentClaims returns the claims resolved for this request, or nil when
// the caller has no valid session.
func CurrentClaims(c echo.Context) *domain.ClaimSet {
	claims, _ := c.Get(claimsKey).(*domain.ClaimSet)
	return claims
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
