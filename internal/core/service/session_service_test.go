package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

func newSessionFixture(t *testing.T) (*stubUserRepo, *sessionService, *time.Time) {
	t.Helper()
	users := newStubUserRepo()
	svc := NewSessionService(users, "secret", time.Hour, zerolog.Nop()).(*sessionService)

	// Truncated to seconds: synced_at round-trips through a unix timestamp.
	now := time.Now().UTC().Truncate(time.Second)
	svc.now = func() time.Time { return now }
	return users, svc, &now
}

func seedSessionUser(users *stubUserRepo) *domain.User {
	return users.add(&domain.User{
		Name:          "Ada Lovelace",
		IndexCode:     "IDX1",
		InstitutionID: "inst_1",
		Role:          domain.RoleMember,
	})
}

func TestIssueParse_RoundTrip(t *testing.T) {
	users, svc, now := newSessionFixture(t)
	user := seedSessionUser(users)
	claims := domain.NewClaimSet(user, *now)

	token, err := svc.Issue(claims)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parsed, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.UserID != user.ID || parsed.Name != "Ada Lovelace" || parsed.Role != domain.RoleMember {
		t.Fatalf("unexpected parsed claims: %+v", parsed)
	}
	if !parsed.SyncedAt.Equal(*now) {
		t.Fatalf("synced_at not preserved: %v", parsed.SyncedAt)
	}
}

func TestParse_RejectsWrongSecret(t *testing.T) {
	users, svc, now := newSessionFixture(t)
	user := seedSessionUser(users)

	other := NewSessionService(users, "other-secret", time.Hour, zerolog.Nop()).(*sessionService)
	token, err := other.Issue(domain.NewClaimSet(user, *now))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := svc.Parse(token); err == nil {
		t.Fatalf("expected signature verification to fail")
	}
}

func TestRefresh_TrustsFreshClaims(t *testing.T) {
	users, svc, now := newSessionFixture(t)
	user := seedSessionUser(users)
	claims := domain.NewClaimSet(user, *now)

	// Admin promotes the user right after the claims were cached.
	users.users[user.ID].Role = domain.RoleAdmin

	// Two minutes later the cached role still holds: bounded staleness.
	*now = now.Add(2 * time.Minute)
	got, token, err := svc.Refresh(context.Background(), claims, false)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if token != "" {
		t.Fatalf("expected no token rotation for fresh claims")
	}
	if got.Role != domain.RoleMember {
		t.Fatalf("expected cached member role at T+2m, got %q", got.Role)
	}
}

func TestRefresh_ResyncsAfterTTL(t *testing.T) {
	users, svc, now := newSessionFixture(t)
	user := seedSessionUser(users)
	claims := domain.NewClaimSet(user, *now)

	users.users[user.ID].Role = domain.RoleAdmin

	// Six minutes later the TTL has lapsed and the new role is observed.
	*now = now.Add(6 * time.Minute)
	got, token, err := svc.Refresh(context.Background(), claims, false)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a rotated token after resync")
	}
	if got.Role != domain.RoleAdmin {
		t.Fatalf("expected resynced admin role at T+6m, got %q", got.Role)
	}
	if !got.SyncedAt.Equal(*now) {
		t.Fatalf("expected synced_at to advance, got %v", got.SyncedAt)
	}
}

func TestRefresh_ForcedResync(t *testing.T) {
	users, svc, now := newSessionFixture(t)
	user := seedSessionUser(users)
	claims := domain.NewClaimSet(user, *now)

	users.users[user.ID].Name = "Ada King"

	// Well inside the TTL, but the caller asked for an update.
	*now = now.Add(30 * time.Second)
	got, token, err := svc.Refresh(context.Background(), claims, true)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a rotated token on forced resync")
	}
	if got.Name != "Ada King" {
		t.Fatalf("expected updated name, got %q", got.Name)
	}
}

func TestRefresh_FirstSeenClaimsResync(t *testing.T) {
	users, svc, now := newSessionFixture(t)
	user := seedSessionUser(users)

	// A token that has never been synchronized mid-session carries no name.
	claims := domain.ClaimSet{UserID: user.ID, SyncedAt: *now}

	got, token, err := svc.Refresh(context.Background(), claims, false)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if token == "" || got.Name != "Ada Lovelace" {
		t.Fatalf("expected first-seen resync to populate claims, got %+v", got)
	}
}

func TestRefresh_StoreFailureKeepsCachedClaims(t *testing.T) {
	users, svc, now := newSessionFixture(t)
	user := seedSessionUser(users)
	claims := domain.NewClaimSet(user, *now)

	users.failReads = true
	*now = now.Add(10 * time.Minute)

	// Staleness is preferred over denial of service.
	got, token, err := svc.Refresh(context.Background(), claims, false)
	if err != nil {
		t.Fatalf("expected cached claims on store failure, got error %v", err)
	}
	if token != "" {
		t.Fatalf("expected no token rotation on store failure")
	}
	if got != claims {
		t.Fatalf("expected cached claims unchanged, got %+v", got)
	}
}

func TestRefresh_BannedUserRejected(t *testing.T) {
	users, svc, now := newSessionFixture(t)
	user := seedSessionUser(users)
	claims := domain.NewClaimSet(user, *now)

	users.users[user.ID].Banned = true
	users.users[user.ID].BanReason = "spam"
	*now = now.Add(6 * time.Minute)

	_, _, err := svc.Refresh(context.Background(), claims, false)
	if !errors.Is(err, domain.ErrAccountBanned) {
		t.Fatalf("expected ErrAccountBanned, got %v", err)
	}
}

func TestRefresh_DeletedUserRejected(t *testing.T) {
	users, svc, now := newSessionFixture(t)
	user := seedSessionUser(users)
	claims := domain.NewClaimSet(user, *now)

	delete(users.users, user.ID)
	*now = now.Add(6 * time.Minute)

	_, _, err := svc.Refresh(context.Background(), claims, false)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
