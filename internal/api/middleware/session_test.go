package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
	"github.com/campusfolio/portfolio-api/internal/core/service"
)

// stubUserRepo implements just enough of the credential store for the
// session middleware: FindByID for resynchronization.
type stubUserRepo struct {
	user *domain.User
}

func (r *stubUserRepo) Create(_ context.Context, _ *domain.User) (*domain.User, error) {
	return nil, domain.ErrUserExists
}

func (r *stubUserRepo) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.user != nil && r.user.ID == id {
		clone := *r.user
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailAndIndexCode(_ context.Context, _, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, _, _ string) error { return nil }

func (r *stubUserRepo) UpdateBanStatus(_ context.Context, _ string, _ ports.BanUpdate) error {
	return nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, _, _ string) error { return nil }
func (r *stubUserRepo) UpdateProfileFields(_ context.Context, _ string, _ ports.ProfileUpdate) error {
	return nil
}
func (r *stubUserRepo) CountByInstitution(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func testUser() *domain.User {
	return &domain.User{
		ID:            "user_1",
		Email:         "ada@reg.edu",
		Name:          "Ada Lovelace",
		IndexCode:     "IDX1",
		InstitutionID: "inst_1",
		Role:          domain.RoleMember,
	}
}

func newSessionContext(t *testing.T, sessions ports.SessionService, token string) (echo.Context, *httptest.ResponseRecorder, echo.MiddlewareFunc) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, Session(sessions)
}

func TestSession_NoTokenProceedsAnonymously(t *testing.T) {
	sessions := service.NewSessionService(&stubUserRepo{}, "secret", time.Hour, zerolog.Nop())
	c, rec, mw := newSessionContext(t, sessions, "")

	handler := mw(func(c echo.Context) error {
		if CurrentClaims(c) != nil {
			t.Fatalf("expected no claims without a token")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSession_InvalidTokenProceedsAnonymously(t *testing.T) {
	sessions := service.NewSessionService(&stubUserRepo{}, "secret", time.Hour, zerolog.Nop())
	c, _, mw := newSessionContext(t, sessions, "not-a-token")

	handler := mw(func(c echo.Context) error {
		if CurrentClaims(c) != nil {
			t.Fatalf("expected no claims for a garbage token")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_FreshTokenClaimsInjected(t *testing.T) {
	user := testUser()
	sessions := service.NewSessionService(&stubUserRepo{user: user}, "secret", time.Hour, zerolog.Nop())

	token, err := sessions.Issue(domain.NewClaimSet(user, time.Now().UTC()))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	c, rec, mw := newSessionContext(t, sessions, token)

	handler := mw(func(c echo.Context) error {
		claims := CurrentClaims(c)
		if claims == nil {
			t.Fatalf("expected claims to be injected")
		}
		if claims.UserID != "user_1" || claims.Name != "Ada Lovelace" {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	// Fresh claims: no rotation.
	if got := rec.Header().Get(TokenHeader); got != "" {
		t.Fatalf("expected no rotated token, got %q", got)
	}
}

func TestSession_ForcedRefreshRotatesToken(t *testing.T) {
	user := testUser()
	repo := &stubUserRepo{user: user}
	sessions := service.NewSessionService(repo, "secret", time.Hour, zerolog.Nop())

	token, err := sessions.Issue(domain.NewClaimSet(user, time.Now().UTC()))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	repo.user.Name = "Ada King"

	c, rec, mw := newSessionContext(t, sessions, token)
	c.Request().Header.Set(RefreshHeader, "1")

	handler := mw(func(c echo.Context) error {
		if got := CurrentClaims(c).Name; got != "Ada King" {
			t.Fatalf("expected refreshed name, got %q", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get(TokenHeader) == "" {
		t.Fatalf("expected rotated token in %s header", TokenHeader)
	}
}

func TestSession_StaleTokenOfBannedUserRejected(t *testing.T) {
	user := testUser()
	repo := &stubUserRepo{user: user}
	sessions := service.NewSessionService(repo, "secret", time.Hour, zerolog.Nop())

	// Claims synchronized just over the TTL ago; the resync sees the ban.
	stale := domain.NewClaimSet(user, time.Now().UTC().Add(-6*time.Minute))
	token, err := sessions.Issue(stale)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	repo.user.Banned = true
	repo.user.BanReason = "spam"

	c, _, mw := newSessionContext(t, sessions, token)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err = handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for banned user, got %v", err)
	}
}
