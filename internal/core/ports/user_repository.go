package ports

import (
	"context"
	"time"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

// BanUpdate is the full mutation surface of a ban/unban operation. All
// three fields are written in a single update so a record is never left
// half-banned.
type BanUpdate struct {
	Banned   bool
	BannedAt *time.Time
	Reason   string
}

// ProfileUpdate carries the self-service editable fields. Nil means
// "leave unchanged".
type ProfileUpdate struct {
	Name   *string
	Avatar *string
}

// UserRepository is the credential store: single-document reads and
// explicit per-operation field-set updates on identity records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmailAndIndexCode(ctx context.Context, email, indexCode string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdateBanStatus(ctx context.Context, id string, upd BanUpdate) error
	UpdateRole(ctx context.Context, id, role string) error
	UpdateProfileFields(ctx context.Context, id string, upd ProfileUpdate) error
	CountByInstitution(ctx context.Context, institutionID string) (int64, error)
}
