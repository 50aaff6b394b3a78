package ports

import (
	"context"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

// RegisterInput carries a signup submission.
type RegisterInput struct {
	Email            string
	Password         string
	Name             string
	IndexCode        string
	RegistrationCode string
}

// RecoveryInitiation is the non-disclosing response of recovery step A.
// Message is identical whether or not an account exists.
type RecoveryInitiation struct {
	Message string
}

// AuthService authenticates credentials, registers members, and runs the
// two-step password recovery flow.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.ClaimSet, error)
	InitiateRecovery(ctx context.Context, email string) (*RecoveryInitiation, error)
	CompleteRecovery(ctx context.Context, email, indexCode, newPassword string) error
}
