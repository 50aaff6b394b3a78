package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusfolio/portfolio-api/internal/api/metrics"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
)

// AdminHandler exposes moderation routes. All of them sit behind the admin
// guard in the router.
type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type banRequest struct {
	Reason string `json:"reason"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member admin"`
}

// Ban suspends an account with an optional reason.
//
// @Summary      Ban a user
// @Tags         admin
// @Accept       json
// @Param        id    path  string      true  "User id"
// @Param        body  body  banRequest  false "Ban reason"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id}/ban [post]
func (h *AdminHandler) Ban(c echo.Context) error {
	var req banRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.adminService.BanUser(c.Request().Context(), c.Param("id"), req.Reason); err != nil {
		return err
	}

	metrics.ModerationActionsTotal.WithLabelValues("ban").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Unban lifts a suspension.
//
// @Summary      Unban a user
// @Tags         admin
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id}/unban [post]
func (h *AdminHandler) Unban(c echo.Context) error {
	if err := h.adminService.UnbanUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.ModerationActionsTotal.WithLabelValues("unban").Inc()
	return c.NoContent(http.StatusNoContent)
}

// SetRole changes an account's role. An active session observes the change
// at its next claim resynchronization.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Param        id    path  string          true  "User id"
// @Param        body  body  setRoleRequest  true  "New role"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.adminService.SetRole(c.Request().Context(), c.Param("id"), req.Role); err != nil {
		return err
	}

	metrics.ModerationActionsTotal.WithLabelValues("set_role").Inc()
	return c.NoContent(http.StatusNoContent)
}
