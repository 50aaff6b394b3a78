package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Email            string `json:"email"             validate:"required,email"`
	Password         string `json:"password"          validate:"required,min=8"`
	Name             string `json:"name"              validate:"required"`
	IndexCode        string `json:"index_code"        validate:"required"`
	RegistrationCode string `json:"registration_code"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type recoveryInitRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type recoveryCompleteRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	IndexCode   string `json:"index_code"   validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Response-only types owned by the transport layer, kept separate from
// domain types so the JSON contract is not coupled to internal changes.

type sessionResponse struct {
	Token string         `json:"token"`
	User  claimsResponse `json:"user"`
}

type claimsResponse struct {
	UserID           string    `json:"user_id"`
	Name             string    `json:"name"`
	IndexCode        string    `json:"index_code"`
	RegistrationCode string    `json:"registration_code"`
	InstitutionID    string    `json:"institution_id"`
	Role             string    `json:"role"`
	Avatar           string    `json:"avatar,omitempty"`
	SyncedAt         time.Time `json:"synced_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	IndexCode        string    `json:"index_code"`
	RegistrationCode string    `json:"registration_code,omitempty"`
	InstitutionID    string    `json:"institution_id"`
	Role             string    `json:"role"`
	Avatar           string    `json:"avatar,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
