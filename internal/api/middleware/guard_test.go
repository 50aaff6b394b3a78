package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

func guardContext(role string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if role != "" {
		c.Set(claimsKey, &domain.ClaimSet{UserID: "user_1", Name: "Ada", Role: role})
	}
	return c
}

func mustHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d", code, he.Code)
	}
}

func TestRequireSession(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	if err := RequireSession()(ok)(guardContext("")); err == nil {
		t.Fatalf("expected anonymous request to be rejected")
	} else {
		mustHTTPError(t, err, http.StatusUnauthorized)
	}

	if err := RequireSession()(ok)(guardContext(domain.RoleMember)); err != nil {
		t.Fatalf("member session rejected: %v", err)
	}
}

func TestRequireAdmin_Precedence(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	// No session at all: Unauthorized, not Forbidden.
	mustHTTPError(t, RequireAdmin()(ok)(guardContext("")), http.StatusUnauthorized)

	// Authenticated but not admin: Forbidden.
	mustHTTPError(t, RequireAdmin()(ok)(guardContext(domain.RoleMember)), http.StatusForbidden)

	if err := RequireAdmin()(ok)(guardContext(domain.RoleAdmin)); err != nil {
		t.Fatalf("admin session rejected: %v", err)
	}
}

func TestRequireOwner(t *testing.T) {
	mustHTTPError(t, RequireOwner(guardContext(""), "user_1"), http.StatusUnauthorized)
	mustHTTPError(t, RequireOwner(guardContext(domain.RoleAdmin), "someone_else"), http.StatusForbidden)

	if err := RequireOwner(guardContext(domain.RoleMember), "user_1"); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
}
