package ports

import "context"

// AdminService exposes the moderation operations available to admins.
// Callers are expected to have passed the admin guard already.
type AdminService interface {
	BanUser(ctx context.Context, userID, reason string) error
	UnbanUser(ctx context.Context, userID string) error
	SetRole(ctx context.Context, userID, role string) error
}
