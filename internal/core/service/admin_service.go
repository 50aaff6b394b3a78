package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
)

type adminService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

// NewAdminService returns the moderation service.
func NewAdminService(users ports.UserRepository, log zerolog.Logger) ports.AdminService {
	return &adminService{users: users, log: log}
}

// BanUser suspends an account. Flag, timestamp and reason are written as one
// field-set so the record is never observed half-banned.
func (s *adminService) BanUser(ctx context.Context, userID, reason string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	now := time.Now().UTC()
	upd := ports.BanUpdate{Banned: true, BannedAt: &now, Reason: reason}
	if err := s.users.UpdateBanStatus(ctx, userID, upd); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Str("reason", reason).Msg("user banned")
	return nil
}

// UnbanUser lifts a suspension, clearing timestamp and reason with the flag.
func (s *adminService) UnbanUser(ctx context.Context, userID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	if err := s.users.UpdateBanStatus(ctx, userID, ports.BanUpdate{}); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Msg("user unbanned")
	return nil
}

// SetRole changes an account's role. The change reaches an active session at
// its next claim resynchronization.
func (s *adminService) SetRole(ctx context.Context, userID, role string) error {
	if role != domain.RoleMember && role != domain.RoleAdmin {
		return domain.NewValidationError("role must be member or admin")
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Str("role", role).Msg("user role changed")
	return nil
}
