package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

func TestBanUser_SingleFieldSet(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAdminService(users, zerolog.Nop())
	u := users.add(&domain.User{Email: "a@reg.edu", Name: "A"})

	if err := svc.BanUser(context.Background(), u.ID, "spamming reports"); err != nil {
		t.Fatalf("ban failed: %v", err)
	}

	// Flag, timestamp and reason arrive in one update.
	if len(users.banCalls) != 1 {
		t.Fatalf("expected exactly one ban update, got %d", len(users.banCalls))
	}
	upd := users.banCalls[0]
	if !upd.Banned || upd.BannedAt == nil || upd.Reason != "spamming reports" {
		t.Fatalf("incomplete ban update: %+v", upd)
	}

	got := users.users[u.ID]
	if !got.Banned || got.BanReason != "spamming reports" {
		t.Fatalf("ban not applied: %+v", got)
	}
}

func TestUnbanUser_ClearsBanFields(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAdminService(users, zerolog.Nop())
	u := users.add(&domain.User{Email: "a@reg.edu", Banned: true, BanReason: "old"})

	if err := svc.UnbanUser(context.Background(), u.ID); err != nil {
		t.Fatalf("unban failed: %v", err)
	}

	got := users.users[u.ID]
	if got.Banned || got.BannedAt != nil || got.BanReason != "" {
		t.Fatalf("ban fields not cleared: %+v", got)
	}
}

func TestSetRole_Validation(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAdminService(users, zerolog.Nop())
	u := users.add(&domain.User{Email: "a@reg.edu"})

	var ve *domain.ValidationError
	if err := svc.SetRole(context.Background(), u.ID, "superuser"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unknown role, got %v", err)
	}

	if err := svc.SetRole(context.Background(), u.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if users.users[u.ID].Role != domain.RoleAdmin {
		t.Fatalf("role not applied: %+v", users.users[u.ID])
	}
}

func TestSetRole_UnknownUser(t *testing.T) {
	svc := NewAdminService(newStubUserRepo(), zerolog.Nop())

	if err := svc.SetRole(context.Background(), "missing", domain.RoleAdmin); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	users := newStubUserRepo()
	svc := NewUserService(users, zerolog.Nop())
	u := users.add(&domain.User{Email: "a@reg.edu", Name: "Old Name", Avatar: "old.png"})

	newName := "New Name"
	got, err := svc.UpdateProfile(context.Background(), u.ID, profileUpdate(&newName, nil))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.Name != "New Name" || got.Avatar != "old.png" {
		t.Fatalf("expected only name to change: %+v", got)
	}
}

func TestUpdateProfile_EmptyUpdateRejected(t *testing.T) {
	users := newStubUserRepo()
	svc := NewUserService(users, zerolog.Nop())
	u := users.add(&domain.User{Email: "a@reg.edu", Name: "A"})

	var ve *domain.ValidationError
	if _, err := svc.UpdateProfile(context.Background(), u.ID, profileUpdate(nil, nil)); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty update, got %v", err)
	}
}
