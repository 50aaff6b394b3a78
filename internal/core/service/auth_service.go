package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
)

// minPasswordLength is enforced on signup and recovery before any storage
// access.
const minPasswordLength = 8

// recoveryMessage is recovery step A's answer whether or not the account
// exists. Account existence is never disclosed here.
const recoveryMessage = "if an account exists for this email, you can reset its password with your index number"

type authService struct {
	users    ports.UserRepository
	registry ports.InstitutionService
	log      zerolog.Logger
}

// NewAuthService returns an AuthService implementation backed by the
// credential store and the institution domain registry.
func NewAuthService(users ports.UserRepository, registry ports.InstitutionService, log zerolog.Logger) ports.AuthService {
	return &authService{users: users, registry: registry, log: log}
}

// Register creates a member account for an email whose domain belongs to a
// registered institution. Role is always member; admins are promoted later.
func (s *authService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Name == "" || input.IndexCode == "" {
		return nil, domain.NewValidationError("email, name and index number are required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	inst, err := s.registry.ResolveDomain(ctx, email)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:            email,
		PasswordHash:     string(hash),
		Name:             input.Name,
		IndexCode:        input.IndexCode,
		RegistrationCode: input.RegistrationCode,
		InstitutionID:    inst.ID,
		Role:             domain.RoleMember,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("institution_id", inst.ID).Msg("member registered")
	return created, nil
}

// Authenticate verifies a login attempt. The steps run in a fixed order and
// short-circuit on the first failure:
//
//  1. Domain check: an unregistered domain is an actionable failure,
//     surfaced as-is.
//  2. Email lookup: a missing account collapses into the generic
//     credential failure.
//  3. Password check: bcrypt compare against the stored hash; mismatch is
//     the same generic failure as a missing account.
//  4. Ban check, deliberately after the password check: a banned caller
//     cannot probe other accounts for valid passwords, but a banned owner
//     who authenticates correctly is told why access is refused.
//  5. Success: a claim set snapshot of the current record.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*domain.ClaimSet, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.registry.ResolveDomain(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if user.Banned {
		s.log.Warn().Str("user_id", user.ID).Msg("banned account attempted login")
		return nil, domain.BannedError(user.BanReason)
	}

	claims := domain.NewClaimSet(user, time.Now().UTC())
	return &claims, nil
}

// InitiateRecovery is recovery step A. The domain must resolve (actionable,
// recovery is unauthenticated), but whether an account exists behind the
// email is not disclosed: the response message is identical either way. The
// one narrow exception is a banned existing account, which is told it is
// banned rather than invited to reset a password it can never use.
func (s *authService) InitiateRecovery(ctx context.Context, email string) (*ports.RecoveryInitiation, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.registry.ResolveDomain(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return &ports.RecoveryInitiation{Message: recoveryMessage}, nil
		}
		return nil, fmt.Errorf("initiate recovery: %w", err)
	}

	if user.Banned {
		return nil, domain.BannedError(user.BanReason)
	}

	return &ports.RecoveryInitiation{Message: recoveryMessage}, nil
}

// CompleteRecovery is recovery step B: email plus index number stand in for
// a mailed one-time code. Both must match a single record; the failure never
// says which half was wrong. On match only the password hash and the update
// timestamp change. Retrying with the same answer overwrites harmlessly.
func (s *authService) CompleteRecovery(ctx context.Context, email, indexCode, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	email = strings.ToLower(strings.TrimSpace(email))
	indexCode = strings.TrimSpace(indexCode)
	if email == "" || indexCode == "" {
		return domain.ErrInvalidRecovery
	}

	user, err := s.users.FindByEmailAndIndexCode(ctx, email, indexCode)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return domain.ErrInvalidRecovery
		}
		return fmt.Errorf("complete recovery: %w", err)
	}

	if user.Banned {
		return domain.BannedError(user.BanReason)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("complete recovery: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password recovered via index number")
	return nil
}
