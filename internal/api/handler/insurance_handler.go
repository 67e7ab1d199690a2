package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/metrics"
	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type InsuranceHandler struct {
	insurances ports.InsuranceService
}

func NewInsuranceHandler(insurances ports.InsuranceService) *InsuranceHandler {
	return &InsuranceHandler{insurances: insurances}
}

// List returns a page of insurances.
//
// @Summary      List insurances
// @Tags         insurances
// @Produce      json
// @Security     BearerAuth
// @Param        status         query     string  false  "active, expired or canceled"
// @Param        client_id      query     string  false  "Exact client ID"
// @Param        policy_number  query     string  false  "Partial policy number match"
// @Param        coverage       query     string  false  "Partial coverage match"
// @Param        start_from     query     string  false  "Start date lower bound (YYYY-MM-DD)"
// @Param        start_to       query     string  false  "Start date upper bound (YYYY-MM-DD)"
// @Param        end_from       query     string  false  "End date lower bound (YYYY-MM-DD)"
// @Param        end_to         query     string  false  "End date upper bound (YYYY-MM-DD)"
// @Param        page           query     int     false  "Page (default 1)"
// @Param        limit          query     int     false  "Page size (default 10, max 100)"
// @Success      200            {object}  Envelope{data=[]domain.Insurance}
// @Failure      400            {object}  Envelope
// @Router       /api/insurances [get]
func (h *InsuranceHandler) List(c echo.Context) error {
	filter, err := insuranceFilter(c)
	if err != nil {
		return err
	}

	res, err := h.insurances.FindAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, res)
}

// Get returns one insurance.
//
// @Summary      Get insurance
// @Tags         insurances
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Insurance ID"
// @Success      200  {object}  Envelope{data=domain.Insurance}
// @Failure      404  {object}  Envelope
// @Router       /api/insurances/{id} [get]
func (h *InsuranceHandler) Get(c echo.Context) error {
	ins, err := h.insurances.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ins)
}

// ByPolicyNumber looks an insurance up by its policy number.
//
// @Summary      Get insurance by policy number
// @Tags         insurances
// @Produce      json
// @Security     BearerAuth
// @Param        policyNumber  path      string  true  "Policy number"
// @Success      200           {object}  Envelope{data=domain.Insurance}
// @Failure      404           {object}  Envelope
// @Router       /api/insurances/policy/{policyNumber} [get]
func (h *InsuranceHandler) ByPolicyNumber(c echo.Context) error {
	ins, err := h.insurances.GetInsuranceByPolicyNumber(c.Request().Context(), c.Param("policyNumber"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ins)
}

// Create issues a policy. Status is derived from the dates.
//
// @Summary      Create insurance
// @Tags         insurances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInsuranceRequest  true  "New policy"
// @Success      201   {object}  Envelope{data=domain.Insurance}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/insurances [post]
func (h *InsuranceHandler) Create(c echo.Context) error {
	var req createInsuranceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	ins, err := h.insurances.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	metrics.RecordMutation("insurance", "create")
	metrics.InsuranceStatusTotal.WithLabelValues(string(ins.Status)).Inc()
	return respond(c, http.StatusCreated, ins)
}

// Update changes the supplied fields of a policy. Mounted on PUT and PATCH.
//
// @Summary      Update insurance
// @Tags         insurances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Insurance ID"
// @Param        body  body      updateInsuranceRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Insurance}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Failure      422   {object}  Envelope
// @Router       /api/insurances/{id} [patch]
func (h *InsuranceHandler) Update(c echo.Context) error {
	var req updateInsuranceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	ins, err := h.insurances.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	metrics.RecordMutation("insurance", "update")
	return respond(c, http.StatusOK, ins)
}

// Cancel moves a policy to canceled.
//
// @Summary      Cancel insurance
// @Tags         insurances
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Insurance ID"
// @Success      200  {object}  Envelope{data=domain.Insurance}
// @Failure      404  {object}  Envelope
// @Failure      422  {object}  Envelope
// @Router       /api/insurances/{id}/cancel [post]
func (h *InsuranceHandler) Cancel(c echo.Context) error {
	ins, err := h.insurances.CancelInsurance(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.RecordMutation("insurance", "cancel")
	metrics.InsuranceStatusTotal.WithLabelValues(string(domain.InsuranceCanceled)).Inc()
	return respond(c, http.StatusOK, ins)
}

// Delete removes a policy.
//
// @Summary      Delete insurance
// @Tags         insurances
// @Security     BearerAuth
// @Param        id   path  string  true  "Insurance ID"
// @Success      204
// @Failure      404  {object}  Envelope
// @Router       /api/insurances/{id} [delete]
func (h *InsuranceHandler) Delete(c echo.Context) error {
	if err := h.insurances.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.RecordMutation("insurance", "delete")
	return c.NoContent(http.StatusNoContent)
}

func insuranceFilter(c echo.Context) (ports.InsuranceFilter, error) {
	page, err := pageParams(c)
	if err != nil {
		return ports.InsuranceFilter{}, err
	}
	f := ports.InsuranceFilter{
		ClientID:     strings.TrimSpace(c.QueryParam("client_id")),
		PolicyNumber: strings.TrimSpace(c.QueryParam("policy_number")),
		Coverage:     strings.TrimSpace(c.QueryParam("coverage")),
		Page:         page,
	}
	if raw := c.QueryParam("status"); raw != "" {
		f.Status, _ = domain.ParseInsuranceStatus(raw)
	}
	if f.StartFrom, err = dateQuery(c, "start_from"); err != nil {
		return f, err
	}
	if f.StartTo, err = dateQuery(c, "start_to"); err != nil {
		return f, err
	}
	if f.EndFrom, err = dateQuery(c, "end_from"); err != nil {
		return f, err
	}
	if f.EndTo, err = dateQuery(c, "end_to"); err != nil {
		return f, err
	}
	return f, nil
}
