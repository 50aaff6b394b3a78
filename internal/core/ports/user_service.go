package ports

import (
	"context"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

// UserService covers member self-service: reading and editing one's own
// profile. Ownership is enforced by the caller passing the session's user id.
type UserService interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*domain.User, error)
}
