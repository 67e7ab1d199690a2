package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/metrics"
	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

// UserHandler serves the admin-only user management endpoints. Every response
// carries the public projection of the user.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns a page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  false  "Partial email match"
// @Param        role   query     string  false  "ADMIN or STAFF"
// @Param        page   query     int     false  "Page (default 1)"
// @Param        limit  query     int     false  "Page size (default 10, max 100)"
// @Success      200    {object}  Envelope{data=[]domain.PublicUser}
// @Failure      400    {object}  Envelope
// @Failure      403    {object}  Envelope
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	filter := ports.UserFilter{Email: strings.TrimSpace(c.QueryParam("email")), Page: page}
	if raw := c.QueryParam("role"); raw != "" {
		filter.Role, _ = domain.ParseRole(raw)
	}

	res, err := h.users.FindAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, publicPage(res))
}

// Get returns one user.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  Envelope{data=domain.PublicUser}
// @Failure      404  {object}  Envelope
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u.Public())
}

// Create adds a user.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  Envelope{data=domain.PublicUser}
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.users.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.RecordMutation("user", "create")
	return respond(c, http.StatusCreated, u.Public())
}

// Update changes the supplied fields of a user. Mounted on PUT and PATCH.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.PublicUser}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.users.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	metrics.RecordMutation("user", "update")
	return respond(c, http.StatusOK, u.Public())
}

// Delete removes a user.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  Envelope
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.RecordMutation("user", "delete")
	return c.NoContent(http.StatusNoContent)
}

func publicPage(p *ports.Paged[*domain.User]) *ports.Paged[*domain.PublicUser] {
	items := make([]*domain.PublicUser, len(p.Items))
	for i, u := range p.Items {
		items[i] = u.Public()
	}
	return &ports.Paged[*domain.PublicUser]{Items: items, Total: p.Total, Page: p.Page, Limit: p.Limit}
}
