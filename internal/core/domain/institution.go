package domain

import "time"

// Institution is a registered organization whose lowercase email domain is
// the sole gate for account creation and login. Domain is unique.
type Institution struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestStatus is the lifecycle state of an institution request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// InstitutionRequest is a pending proposal to register a new institution.
// Its domain must not collide with an existing institution or another
// pending request. Approved and rejected are terminal states.
type InstitutionRequest struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	City        string        `json:"city,omitempty"`
	Country     string        `json:"country,omitempty"`
	Domain      string        `json:"domain"`
	RequestedBy string        `json:"requested_by,omitempty"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	DecidedAt   *time.Time    `json:"decided_at,omitempty"`
}

// Decided reports whether the request has reached a terminal state.
func (r *InstitutionRequest) Decided() bool {
	return r.Status != RequestPending
}
