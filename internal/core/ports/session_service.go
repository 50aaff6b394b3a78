package ports

import (
	"context"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
)

// SessionService owns the signed session token lifecycle: minting a token
// from freshly authenticated claims, and deciding per request whether a
// token's cached claims are still trustworthy or must be re-read from the
// credential store.
type SessionService interface {
	// Issue signs a token embedding the claim set.
	Issue(claims domain.ClaimSet) (string, error)

	// Parse verifies a token's signature and expiry and returns the
	// embedded claims.
	Parse(token string) (*domain.ClaimSet, error)

	// Refresh returns the claims to use for this request and, when they
	// were resynchronized, a replacement token to hand to the client.
	// forceResync bypasses the staleness check (used after profile edits).
	// A transient store failure keeps the cached claims instead of
	// failing the request.
	Refresh(ctx context.Context, claims domain.ClaimSet, forceResync bool) (domain.ClaimSet, string, error)
}
