package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
)

type userService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

// NewUserService returns the member self-service implementation.
func NewUserService(users ports.UserRepository, log zerolog.Logger) ports.UserService {
	return &userService{users: users, log: log}
}

func (s *userService) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies the editable fields and returns the updated record
// so the caller can refresh its session claims.
func (s *userService) UpdateProfile(ctx context.Context, userID string, upd ports.ProfileUpdate) (*domain.User, error) {
	if upd.Name != nil && *upd.Name == "" {
		return nil, domain.NewValidationError("name cannot be empty")
	}
	if upd.Name == nil && upd.Avatar == nil {
		return nil, domain.NewValidationError("nothing to update")
	}

	if err := s.users.UpdateProfileFields(ctx, userID, upd); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return user, nil
}
