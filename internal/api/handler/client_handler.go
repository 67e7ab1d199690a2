package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/metrics"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type ClientHandler struct {
	clients    ports.ClientService
	insurances ports.InsuranceService
}

func NewClientHandler(clients ports.ClientService, insurances ports.InsuranceService) *ClientHandler {
	return &ClientHandler{clients: clients, insurances: insurances}
}

// List returns a page of clients. q matches name, email or phone; the other
// parameters each match their own column.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  false  "Partial name, email or phone match"
// @Param        name   query     string  false  "Partial name match"
// @Param        email  query     string  false  "Partial email match"
// @Param        phone  query     string  false  "Partial phone match"
// @Param        page   query     int     false  "Page (default 1)"
// @Param        limit  query     int     false  "Page size (default 10, max 100)"
// @Success      200    {object}  Envelope{data=[]domain.Client}
// @Failure      400    {object}  Envelope
// @Router       /api/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	filter := ports.ClientFilter{
		Search: strings.TrimSpace(c.QueryParam("q")),
		Name:   strings.TrimSpace(c.QueryParam("name")),
		Email:  strings.TrimSpace(c.QueryParam("email")),
		Phone:  strings.TrimSpace(c.QueryParam("phone")),
		Page:   page,
	}

	res, err := h.clients.FindAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, res)
}

// Get returns a client together with its policies.
//
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  Envelope{data=domain.ClientWithInsurances}
// @Failure      404  {object}  Envelope
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	cl, err := h.clients.GetWithInsurances(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cl)
}

// Insurances lists every policy of a client.
//
// @Summary      List client insurances
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  Envelope{data=[]domain.Insurance}
// @Failure      404  {object}  Envelope
// @Router       /api/clients/{id}/insurances [get]
func (h *ClientHandler) Insurances(c echo.Context) error {
	ctx := c.Request().Context()
	cl, err := h.clients.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	items, err := h.insurances.GetInsurancesByClientID(ctx, cl.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, items)
}

// Create adds a client.
//
// @Summary      Create client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "New client"
// @Success      201   {object}  Envelope{data=domain.Client}
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cl, err := h.clients.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.RecordMutation("client", "create")
	return respond(c, http.StatusCreated, cl)
}

// Update changes the supplied fields of a client. Mounted on PUT and PATCH.
//
// @Summary      Update client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client ID"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Client}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/clients/{id} [patch]
func (h *ClientHandler) Update(c echo.Context) error {
	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cl, err := h.clients.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	metrics.RecordMutation("client", "update")
	return respond(c, http.StatusOK, cl)
}

// Delete removes a client and its policies.
//
// @Summary      Delete client
// @Tags         clients
// @Security     BearerAuth
// @Param        id   path  string  true  "Client ID"
// @Success      204
// @Failure      404  {object}  Envelope
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.clients.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.RecordMutation("client", "delete")
	return c.NoContent(http.StatusNoContent)
}
