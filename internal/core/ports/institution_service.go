package ports

import (
	"context"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

// InstitutionRequestInput carries a proposal to register a new institution.
type InstitutionRequestInput struct {
	Name        string
	City        string
	Country     string
	Domain      string
	RequestedBy string
}

// InstitutionService is the domain registry plus institution lifecycle
// management (requests, approval, deletion).
type InstitutionService interface {
	// ResolveDomain maps an email to its registered institution by exact
	// lowercase domain match. No wildcard or suffix matching.
	ResolveDomain(ctx context.Context, email string) (*domain.Institution, error)

	List(ctx context.Context) ([]domain.Institution, error)
	Delete(ctx context.Context, institutionID string) error

	SubmitRequest(ctx context.Context, input InstitutionRequestInput) (*domain.InstitutionRequest, error)
	ListPendingRequests(ctx context.Context) ([]domain.InstitutionRequest, error)
	DecideRequest(ctx context.Context, requestID string, approve bool) (*domain.InstitutionRequest, error)
}
