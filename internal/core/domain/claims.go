package domain

import (
	"strings"
	"time"
)

// ClaimSet is the identity data embedded in a session token. It is a cache
// of the user record, never a second source of truth: SyncedAt records when
// the fields were last re-read from storage, and ClaimResyncTTL bounds how
// stale a token's copy may get before the next request re-reads them.
type ClaimSet struct {
	UserID           string    `json:"user_id"`
	Name             string    `json:"name"`
	IndexCode        string    `json:"index_code"`
	RegistrationCode string    `json:"registration_code"`
	InstitutionID    string    `json:"institution_id"`
	Role             string    `json:"role"`
	Avatar           string    `json:"avatar,omitempty"`
	SyncedAt         time.Time `json:"synced_at"`
}

// ClaimResyncTTL is the maximum age of cached claims before they are
// re-read from the credential store.
const ClaimResyncTTL = 5 * time.Minute

// NewClaimSet builds a claim set from a user record, stamped at now.
func NewClaimSet(u *User, now time.Time) ClaimSet {
	return ClaimSet{
		UserID:           u.ID,
		Name:             u.Name,
		IndexCode:        u.IndexCode,
		RegistrationCode: u.RegistrationCode,
		InstitutionID:    u.InstitutionID,
		Role:             u.EffectiveRole(),
		Avatar:           u.Avatar,
		SyncedAt:         now,
	}
}

// Stale reports whether the claims must be resynchronized at time now.
// Claims with no cached name have never been synchronized mid-session.
func (c ClaimSet) Stale(now time.Time) bool {
	if c.Name == "" {
		return true
	}
	return now.Sub(c.SyncedAt) > ClaimResyncTTL
}

// IsAdmin reports whether the claims carry the admin role.
func (c ClaimSet) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// EmailDomain extracts the lowercased part after '@', or "" when the input
// is not an email address.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
