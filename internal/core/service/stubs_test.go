package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
)

var errStoreDown = errors.New("store unavailable")

func profileUpdate(name, avatar *string) ports.ProfileUpdate {
	return ports.ProfileUpdate{Name: name, Avatar: avatar}
}

// stubUserRepo is an in-memory credential store shared by the service tests.
type stubUserRepo struct {
	users map[string]*domain.User // keyed by id

	nextID    int
	failReads bool
	findCalls int
	banCalls  []ports.BanUpdate
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	copy := cloneUser(u)
	if copy.ID == "" {
		r.nextID++
		copy.ID = "user_" + strconv.Itoa(r.nextID)
	}
	r.users[copy.ID] = copy
	return cloneUser(copy)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email || u.IndexCode == user.IndexCode {
			return nil, domain.ErrUserExists
		}
	}
	return r.add(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.findCalls++
	if r.failReads {
		return nil, errStoreDown
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.findCalls++
	if r.failReads {
		return nil, errStoreDown
	}
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailAndIndexCode(_ context.Context, email, indexCode string) (*domain.User, error) {
	r.findCalls++
	if r.failReads {
		return nil, errStoreDown
	}
	for _, u := range r.users {
		if u.Email == email && u.IndexCode == indexCode {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *stubUserRepo) UpdateBanStatus(_ context.Context, id string, upd ports.BanUpdate) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.banCalls = append(r.banCalls, upd)
	u.Banned = upd.Banned
	u.BannedAt = upd.BannedAt
	u.BanReason = upd.Reason
	return nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id, role string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) UpdateProfileFields(_ context.Context, id string, upd ports.ProfileUpdate) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	return nil
}

func (r *stubUserRepo) CountByInstitution(_ context.Context, institutionID string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.InstitutionID == institutionID {
			n++
		}
	}
	return n, nil
}

// stubInstRepo is an in-memory institution registry.
type stubInstRepo struct {
	byDomain map[string]*domain.Institution
	nextID   int
}

func newStubInstRepo(domains ...string) *stubInstRepo {
	r := &stubInstRepo{byDomain: make(map[string]*domain.Institution)}
	for _, d := range domains {
		r.nextID++
		r.byDomain[d] = &domain.Institution{
			ID:     "inst_" + strconv.Itoa(r.nextID),
			Name:   d,
			Domain: d,
		}
	}
	return r
}

func (r *stubInstRepo) Create(_ context.Context, inst *domain.Institution) (*domain.Institution, error) {
	if _, exists := r.byDomain[inst.Domain]; exists {
		return nil, domain.ErrDomainTaken
	}
	r.nextID++
	copy := *inst
	copy.ID = "inst_" + strconv.Itoa(r.nextID)
	r.byDomain[copy.Domain] = &copy
	return &copy, nil
}

func (r *stubInstRepo) FindByDomain(_ context.Context, emailDomain string) (*domain.Institution, error) {
	if inst, ok := r.byDomain[emailDomain]; ok {
		clone := *inst
		return &clone, nil
	}
	return nil, domain.ErrInstitutionNotFound
}

func (r *stubInstRepo) FindByID(_ context.Context, id string) (*domain.Institution, error) {
	for _, inst := range r.byDomain {
		if inst.ID == id {
			clone := *inst
			return &clone, nil
		}
	}
	return nil, domain.ErrInstitutionNotFound
}

func (r *stubInstRepo) List(_ context.Context) ([]domain.Institution, error) {
	out := make([]domain.Institution, 0, len(r.byDomain))
	for _, inst := range r.byDomain {
		out = append(out, *inst)
	}
	return out, nil
}

func (r *stubInstRepo) Delete(_ context.Context, id string) error {
	for d, inst := range r.byDomain {
		if inst.ID == id {
			delete(r.byDomain, d)
			return nil
		}
	}
	return domain.ErrInstitutionNotFound
}

// stubRequestRepo is an in-memory institution request queue.
type stubRequestRepo struct {
	requests map[string]*domain.InstitutionRequest
	nextID   int
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[string]*domain.InstitutionRequest)}
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.InstitutionRequest) (*domain.InstitutionRequest, error) {
	r.nextID++
	copy := *req
	copy.ID = fmt.Sprintf("req_%d", r.nextID)
	r.requests[copy.ID] = &copy
	clone := copy
	return &clone, nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.InstitutionRequest, error) {
	if req, ok := r.requests[id]; ok {
		clone := *req
		return &clone, nil
	}
	return nil, domain.ErrRequestNotFound
}

func (r *stubRequestRepo) FindPendingByDomain(_ context.Context, emailDomain string) (*domain.InstitutionRequest, error) {
	for _, req := range r.requests {
		if req.Domain == emailDomain && req.Status == domain.RequestPending {
			clone := *req
			return &clone, nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (r *stubRequestRepo) ListPending(_ context.Context) ([]domain.InstitutionRequest, error) {
	var out []domain.InstitutionRequest
	for _, req := range r.requests {
		if req.Status == domain.RequestPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) UpdateStatus(_ context.Context, id string, status domain.RequestStatus) error {
	req, ok := r.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if req.Status != domain.RequestPending {
		return domain.ErrRequestDecided
	}
	req.Status = status
	return nil
}
