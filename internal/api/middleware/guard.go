package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

// RequireSession admits only requests with a resolved session. It is the
// single choke point for authenticated routes; handlers behind it may
// assume CurrentClaims is non-nil.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentClaims(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireAdmin admits only sessions carrying the admin role. Precedence is
// fixed: a missing session is Unauthorized before an insufficient role is
// Forbidden.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := CurrentClaims(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !claims.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			return next(c)
		}
	}
}

// RequireOwner is the resource-ownership variant of the guard: the session
// must belong to ownerID. Admin role does not bypass it; moderation routes
// have their own guard.
func RequireOwner(c echo.Context, ownerID string) error {
	claims := CurrentClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if claims.UserID != ownerID {
		return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
	}
	return nil
}
