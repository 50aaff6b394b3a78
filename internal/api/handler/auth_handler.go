package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusfolio/portfolio-api/internal/api/metrics"
	"github.com/campusfolio/portfolio-api/internal/api/middleware"
	"github.com/campusfolio/portfolio-api/internal/core/domain"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
)

type AuthHandler struct {
	authService    ports.AuthService
	sessionService ports.SessionService
}

func NewAuthHandler(authService ports.AuthService, sessionService ports.SessionService) *AuthHandler {
	return &AuthHandler{authService: authService, sessionService: sessionService}
}

// Register creates a member account for a recognized institutional email.
//
// @Summary      Register a new member
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Member registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		Name:             req.Name,
		IndexCode:        req.IndexCode,
		RegistrationCode: req.RegistrationCode,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerOutcome(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates credentials and returns a signed session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	token, err := h.sessionService.Issue(*claims)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, sessionResponse{Token: token, User: toClaimsResponse(claims)})
}

// Logout ends the session. The token is stateless and there is no
// server-side revocation list: invalidation happens by the client
// discarding its copy.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Me returns the claims resolved for the current request.
//
// @Summary      Current session claims
// @Tags         auth
// @Produce      json
// @Success      200  {object}  claimsResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(http.StatusOK, toClaimsResponse(claims))
}

// InitiateRecovery is password recovery step A. The response never reveals
// whether an account exists behind the email.
//
// @Summary      Start password recovery
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      recoveryInitRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/recovery [post]
func (h *AuthHandler) InitiateRecovery(c echo.Context) error {
	var req recoveryInitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	init, err := h.authService.InitiateRecovery(c.Request().Context(), req.Email)
	if err != nil {
		metrics.RecoveryStepsTotal.WithLabelValues("initiate", recoveryOutcome(err)).Inc()
		return err
	}

	metrics.RecoveryStepsTotal.WithLabelValues("initiate", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: init.Message})
}

// CompleteRecovery is password recovery step B: email plus index number
// prove ownership and the stored password hash is rotated.
//
// @Summary      Complete password recovery
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      recoveryCompleteRequest  true  "Recovery proof and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/recovery/complete [post]
func (h *AuthHandler) CompleteRecovery(c echo.Context) error {
	var req recoveryCompleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.CompleteRecovery(c.Request().Context(), req.Email, req.IndexCode, req.NewPassword); err != nil {
		metrics.RecoveryStepsTotal.WithLabelValues("complete", recoveryOutcome(err)).Inc()
		return err
	}

	metrics.RecoveryStepsTotal.WithLabelValues("complete", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrDomainNotRegistered):
		return "domain_not_registered"
	case errors.Is(err, domain.ErrAccountBanned):
		return "banned"
	default:
		return "error"
	}
}

func registerOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return "duplicate"
	case errors.Is(err, domain.ErrDomainNotRegistered):
		return "domain_not_registered"
	default:
		return "error"
	}
}

func recoveryOutcome(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrInvalidRecovery),
		errors.Is(err, domain.ErrDomainNotRegistered),
		errors.Is(err, domain.ErrAccountBanned),
		errors.As(err, &ve):
		return "rejected"
	default:
		return "error"
	}
}

func toClaimsResponse(claims *domain.ClaimSet) claimsResponse {
	return claimsResponse{
		UserID:           claims.UserID,
		Name:             claims.Name,
		IndexCode:        claims.IndexCode,
		RegistrationCode: claims.RegistrationCode,
		InstitutionID:    claims.InstitutionID,
		Role:             claims.Role,
		Avatar:           claims.Avatar,
		SyncedAt:         claims.SyncedAt,
	}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		IndexCode:        u.IndexCode,
		RegistrationCode: u.RegistrationCode,
		InstitutionID:    u.InstitutionID,
		Role:             u.EffectiveRole(),
		Avatar:           u.Avatar,
		CreatedAt:        u.CreatedAt,
	}
}
