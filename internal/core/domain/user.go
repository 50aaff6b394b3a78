package domain

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is an identity record for a verified university member. Email and
// IndexCode are globally unique; email is stored lowercased. BannedAt and
// BanReason are only set while Banned is true.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Name             string     `json:"name"`
	IndexCode        string     `json:"index_code"`
	RegistrationCode string     `json:"registration_code"`
	InstitutionID    string     `json:"institution_id"`
	Role             string     `json:"role"`
	Avatar           string     `json:"avatar,omitempty"`
	Banned           bool       `json:"banned"`
	BannedAt         *time.Time `json:"banned_at,omitempty"`
	BanReason        string     `json:"ban_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// EffectiveRole returns the stored role, defaulting to member when unset.
func (u *User) EffectiveRole() string {
	if u.Role == "" {
		return RoleMember
	}
	return u.Role
}
