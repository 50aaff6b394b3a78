package ports

import (
	"context"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

// InstitutionRepository is the persistent registry of institutions keyed
// by their unique lowercase email domain.
type InstitutionRepository interface {
	Create(ctx context.Context, inst *domain.Institution) (*domain.Institution, error)
	FindByDomain(ctx context.Context, emailDomain string) (*domain.Institution, error)
	FindByID(ctx context.Context, id string) (*domain.Institution, error)
	List(ctx context.Context) ([]domain.Institution, error)
	Delete(ctx context.Context, id string) error
}

// InstitutionRequestRepository stores pending proposals to register new
// institutions.
type InstitutionRequestRepository interface {
	Create(ctx context.Context, req *domain.InstitutionRequest) (*domain.InstitutionRequest, error)
	FindByID(ctx context.Context, id string) (*domain.InstitutionRequest, error)
	FindPendingByDomain(ctx context.Context, emailDomain string) (*domain.InstitutionRequest, error)
	ListPending(ctx context.Context) ([]domain.InstitutionRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error
}

// DomainCache is an optional read-through cache in front of institution
// domain lookups. Implementations must treat every failure as a miss;
// the registry always falls back to the repository.
type DomainCache interface {
	Get(ctx context.Context, emailDomain string) (*domain.Institution, bool)
	Put(ctx context.Context, inst *domain.Institution)
	Invalidate(ctx context.Context, emailDomain string)
}
