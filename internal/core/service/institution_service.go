package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
)

type institutionService struct {
	instRepo ports.InstitutionRepository
	reqRepo  ports.InstitutionRequestRepository
	userRepo ports.UserRepository
	cache    ports.DomainCache
	log      zerolog.Logger
}

// NewInstitutionService returns an InstitutionService implementation.
// cache may be nil; domain lookups then always hit the repository.
func NewInstitutionService(
	instRepo ports.InstitutionRepository,
	reqRepo ports.InstitutionRequestRepository,
	userRepo ports.UserRepository,
	cache ports.DomainCache,
	log zerolog.Logger,
) ports.InstitutionService {
	return &institutionService{
		instRepo: instRepo,
		reqRepo:  reqRepo,
		userRepo: userRepo,
		cache:    cache,
		log:      log,
	}
}

// ResolveDomain maps an email to its institution by exact lowercase match on
// the part after '@'. A subdomain that is not itself registered is not found.
func (s *institutionService) ResolveDomain(ctx context.Context, email string) (*domain.Institution, error) {
	emailDomain := domain.EmailDomain(email)
	if emailDomain == "" {
		return nil, domain.ErrDomainNotRegistered
	}

	if s.cache != nil {
		if inst, ok := s.cache.Get(ctx, emailDomain); ok {
			return inst, nil
		}
	}

	inst, err := s.instRepo.FindByDomain(ctx, emailDomain)
	if err != nil {
		if err == domain.ErrInstitutionNotFound {
			return nil, domain.ErrDomainNotRegistered
		}
		return nil, fmt.Errorf("resolve domain: %w", err)
	}

	if s.cache != nil {
		s.cache.Put(ctx, inst)
	}
	return inst, nil
}

func (s *institutionService) List(ctx context.Context) ([]domain.Institution, error) {
	return s.instRepo.List(ctx)
}

// Delete removes an institution unless any identity record still references it.
func (s *institutionService) Delete(ctx context.Context, institutionID string) error {
	inst, err := s.instRepo.FindByID(ctx, institutionID)
	if err != nil {
		return err
	}

	n, err := s.userRepo.CountByInstitution(ctx, institutionID)
	if err != nil {
		return fmt.Errorf("delete institution: count members: %w", err)
	}
	if n > 0 {
		return domain.ErrInstitutionInUse
	}

	if err := s.instRepo.Delete(ctx, institutionID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, inst.Domain)
	}
	s.log.Info().Str("institution_id", institutionID).Str("domain", inst.Domain).Msg("institution deleted")
	return nil
}

// SubmitRequest files a proposal for a new institution. The domain must be
// free against both registered institutions and other pending requests.
func (s *institutionService) SubmitRequest(ctx context.Context, input ports.InstitutionRequestInput) (*domain.InstitutionRequest, error) {
	emailDomain := normalizeDomain(input.Domain)
	if input.Name == "" || emailDomain == "" {
		return nil, domain.NewValidationError("name and domain are required")
	}

	if _, err := s.instRepo.FindByDomain(ctx, emailDomain); err == nil {
		return nil, domain.ErrDomainTaken
	} else if err != domain.ErrInstitutionNotFound {
		return nil, fmt.Errorf("submit request: %w", err)
	}

	if _, err := s.reqRepo.FindPendingByDomain(ctx, emailDomain); err == nil {
		return nil, domain.ErrDomainTaken
	} else if err != domain.ErrRequestNotFound {
		return nil, fmt.Errorf("submit request: %w", err)
	}

	req := &domain.InstitutionRequest{
		Name:        input.Name,
		City:        input.City,
		Country:     input.Country,
		Domain:      emailDomain,
		RequestedBy: input.RequestedBy,
		Status:      domain.RequestPending,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := s.reqRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("domain", emailDomain).Str("requested_by", input.RequestedBy).Msg("institution request submitted")
	return created, nil
}

func (s *institutionService) ListPendingRequests(ctx context.Context) ([]domain.InstitutionRequest, error) {
	return s.reqRepo.ListPending(ctx)
}

// DecideRequest approves or rejects a pending request. Approval materializes
// the institution; either outcome is terminal.
func (s *institutionService) DecideRequest(ctx context.Context, requestID string, approve bool) (*domain.InstitutionRequest, error) {
	req, err := s.reqRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Decided() {
		return nil, domain.ErrRequestDecided
	}

	status := domain.RequestRejected
	if approve {
		// Re-check uniqueness: another request for the same domain may have
		// been approved since this one was filed.
		if _, err := s.instRepo.FindByDomain(ctx, req.Domain); err == nil {
			return nil, domain.ErrDomainTaken
		} else if err != domain.ErrInstitutionNotFound {
			return nil, fmt.Errorf("decide request: %w", err)
		}

		inst := &domain.Institution{
			Name:      req.Name,
			City:      req.City,
			Country:   req.Country,
			Domain:    req.Domain,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := s.instRepo.Create(ctx, inst); err != nil {
			return nil, fmt.Errorf("decide request: create institution: %w", err)
		}
		status = domain.RequestApproved
	}

	if err := s.reqRepo.UpdateStatus(ctx, requestID, status); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req.Status = status
	req.DecidedAt = &now

	s.log.Info().Str("request_id", requestID).Str("domain", req.Domain).Str("status", string(status)).Msg("institution request decided")
	return req, nil
}

// normalizeDomain lowercases a bare domain, tolerating a leading '@'.
func normalizeDomain(d string) string {
	if d == "" {
		return ""
	}
	if d[0] == '@' {
		d = d[1:]
	}
	return domain.EmailDomain("x@" + d)
}
