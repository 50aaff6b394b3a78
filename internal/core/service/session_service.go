package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campusfolio/portfolio-api/internal/core/domain"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

type sessionService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewSessionService returns the session token lifecycle manager. Tokens are
// HS256-signed and carry the claim set; the service is the only place that
// decides between trusting a token's cached claims and re-reading them.
func NewSessionService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) ports.SessionService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &sessionService{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *sessionService) Issue(claims domain.ClaimSet) (string, error) {
	mc := jwt.MapClaims{
		"sub":               claims.UserID,
		"name":              claims.Name,
		"index_code":        claims.IndexCode,
		"registration_code": claims.RegistrationCode,
		"institution_id":    claims.InstitutionID,
		"role":              claims.Role,
		"avatar":            claims.Avatar,
		"synced_at":         claims.SyncedAt.Unix(),
		"jti":               uuid.NewString(),
		"exp":               s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *sessionService) Parse(token string) (*domain.ClaimSet, error) {
	mc := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, mc, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	claims := &domain.ClaimSet{
		UserID:           stringClaim(mc, "sub"),
		Name:             stringClaim(mc, "name"),
		IndexCode:        stringClaim(mc, "index_code"),
		RegistrationCode: stringClaim(mc, "registration_code"),
		InstitutionID:    stringClaim(mc, "institution_id"),
		Role:             stringClaim(mc, "role"),
		Avatar:           stringClaim(mc, "avatar"),
	}
	if ts, ok := mc["synced_at"].(float64); ok {
		claims.SyncedAt = time.Unix(int64(ts), 0).UTC()
	}
	if claims.UserID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Refresh decides whether the cached claims carried in a token can be
// trusted for this request. It resynchronizes from the credential store
// when the claims have never been synchronized mid-session, when the caller
// forces it, or when more than the resync TTL has elapsed. The returned
// token is non-empty only when the claims changed and a replacement should
// reach the client. A transient store failure keeps the cached claims:
// staleness is preferred over refusing the request.
func (s *sessionService) Refresh(ctx context.Context, claims domain.ClaimSet, forceResync bool) (domain.ClaimSet, string, error) {
	if !forceResync && !claims.Stale(s.now()) {
		return claims, "", nil
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			// The account is gone; the session cannot survive it.
			return domain.ClaimSet{}, "", domain.ErrUserNotFound
		}
		s.log.Warn().Err(err).Str("user_id", claims.UserID).Msg("claim resync failed, keeping cached claims")
		return claims, "", nil
	}

	// Bans become visible at the next resync without re-authentication.
	if user.Banned {
		return domain.ClaimSet{}, "", domain.BannedError(user.BanReason)
	}

	refreshed := domain.NewClaimSet(user, s.now())
	token, err := s.Issue(refreshed)
	if err != nil {
		return domain.ClaimSet{}, "", fmt.Errorf("refresh session: %w", err)
	}
	return refreshed, token, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, _ := mc[key].(string)
	return v
}
