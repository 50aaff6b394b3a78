package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusfolio/portfolio-api/internal/api/metrics"
	"github.com/campusfolio/portfolio-api/internal/api/middleware"
	"github.com/campusfolio/portfolio-api/internal/core/domain"
	"github.com/campusfolio/portfolio-api/internal/core/ports"
)

type InstitutionHandler struct {
	institutions ports.InstitutionService
}

func NewInstitutionHandler(institutions ports.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{institutions: institutions}
}

type institutionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
}

type institutionRequestRequest struct {
	Name    string `json:"name"    validate:"required"`
	City    string `json:"city"`
	Country string `json:"country"`
	Domain  string `json:"domain"  validate:"required"`
}

type institutionRequestResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	City        string     `json:"city,omitempty"`
	Country     string     `json:"country,omitempty"`
	Domain      string     `json:"domain"`
	RequestedBy string     `json:"requested_by,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

type decisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

// List returns all registered institutions. Public: signup forms need it.
//
// @Summary      List institutions
// @Tags         institutions
// @Produce      json
// @Success      200  {array}  institutionResponse
// @Router       /institutions [get]
func (h *InstitutionHandler) List(c echo.Context) error {
	insts, err := h.institutions.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]institutionResponse, 0, len(insts))
	for i := range insts {
		out = append(out, toInstitutionResponse(&insts[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// SubmitRequest files a proposal for a new institution. Anonymous
// submissions are allowed; a logged-in submitter is recorded on the request.
//
// @Summary      Request a new institution
// @Tags         institutions
// @Accept       json
// @Produce      json
// @Param        body  body      institutionRequestRequest  true  "Institution proposal"
// @Success      201   {object}  institutionRequestResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /institution-requests [post]
func (h *InstitutionHandler) SubmitRequest(c echo.Context) error {
	var req institutionRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.InstitutionRequestInput{
		Name:    req.Name,
		City:    req.City,
		Country: req.Country,
		Domain:  req.Domain,
	}
	if claims := middleware.CurrentClaims(c); claims != nil {
		input.RequestedBy = claims.UserID
	}

	created, err := h.institutions.SubmitRequest(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRequestResponse(created))
}

// ListPending returns requests awaiting an admin decision.
//
// @Summary      List pending institution requests
// @Tags         admin
// @Produce      json
// @Success      200  {array}  institutionRequestResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/institution-requests [get]
func (h *InstitutionHandler) ListPending(c echo.Context) error {
	reqs, err := h.institutions.ListPendingRequests(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]institutionRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, toRequestResponse(&reqs[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Decide approves or rejects a pending request. Either outcome is terminal.
//
// @Summary      Decide an institution request
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Request id"
// @Param        body  body      decisionRequest  true  "approve or reject"
// @Success      200   {object}  institutionRequestResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/institution-requests/{id}/decision [post]
func (h *InstitutionHandler) Decide(c echo.Context) error {
	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	approve := req.Decision == "approve"
	decided, err := h.institutions.DecideRequest(c.Request().Context(), c.Param("id"), approve)
	if err != nil {
		return err
	}

	if approve {
		metrics.ModerationActionsTotal.WithLabelValues("approve_request").Inc()
	} else {
		metrics.ModerationActionsTotal.WithLabelValues("reject_request").Inc()
	}
	return c.JSON(http.StatusOK, toRequestResponse(decided))
}

// Delete removes an institution with no registered members.
//
// @Summary      Delete an institution
// @Tags         admin
// @Param        id  path  string  true  "Institution id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /admin/institutions/{id} [delete]
func (h *InstitutionHandler) Delete(c echo.Context) error {
	if err := h.institutions.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toInstitutionResponse(inst *domain.Institution) institutionResponse {
	return institutionResponse{
		ID:        inst.ID,
		Name:      inst.Name,
		City:      inst.City,
		Country:   inst.Country,
		Domain:    inst.Domain,
		CreatedAt: inst.CreatedAt,
	}
}

func toRequestResponse(req *domain.InstitutionRequest) institutionRequestResponse {
	return institutionRequestResponse{
		ID:          req.ID,
		Name:        req.Name,
		City:        req.City,
		Country:     req.Country,
		Domain:      req.Domain,
		RequestedBy: req.RequestedBy,
		Status:      string(req.Status),
		CreatedAt:   req.CreatedAt,
		DecidedAt:   req.DecidedAt,
	}
}
