package dashboard

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/metrics"
	"github.com/travelguard/backoffice/internal/api/session"
	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type adminsData struct {
	Users []*domain.PublicUser
	Pager pager
}

type adminForm struct {
	ID     string
	Email  string
	Role   string
	Roles  []domain.Role
	Action string
	IsEdit bool
}

var roles = []domain.Role{domain.RoleAdmin, domain.RoleStaff}

// Admins lists back-office users.
func (h *Handler) Admins(c echo.Context) error {
	res, err := h.svc.Users.FindAll(c.Request().Context(), ports.UserFilter{Page: pageParam(c)})
	if err != nil {
		return err
	}
	users := make([]*domain.PublicUser, len(res.Items))
	for i, u := range res.Items {
		users[i] = u.Public()
	}
	return c.Render(http.StatusOK, "admins.html", Page{
		Title: "Users",
		Flash: c.QueryParam("flash"),
		Data:  adminsData{Users: users, Pager: newPager(c, res)},
	})
}

func (h *Handler) NewAdminForm(c echo.Context) error {
	return h.renderAdminForm(c, http.StatusOK, adminForm{Role: string(domain.RoleStaff)}, "")
}

// CreateAdmin handles the new-user form. Password and confirmation must match.
func (h *Handler) CreateAdmin(c echo.Context) error {
	form := adminForm{
		Email: strings.TrimSpace(c.FormValue("email")),
		Role:  c.FormValue("role"),
	}
	password := c.FormValue("password")
	if password != c.FormValue("confirm_password") {
		return h.renderAdminForm(c, http.StatusBadRequest, form, "passwords do not match")
	}

	_, err := h.svc.Users.Create(c.Request().Context(), ports.CreateUserInput{
		Email:    form.Email,
		Password: password,
		Role:     form.Role,
	})
	if err != nil {
		if isFormError(err) {
			return h.renderAdminForm(c, statusOf(err), form, messageOf(err))
		}
		return err
	}
	metrics.RecordMutation("user", "create")
	return redirectWithFlash(c, homePath+"/admins", "User created")
}

func (h *Handler) EditAdminForm(c echo.Context) error {
	u, err := h.svc.Users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return h.renderAdminForm(c, http.StatusOK, adminForm{ID: u.ID, Email: u.Email, Role: string(u.Role), IsEdit: true}, "")
}

// UpdateAdmin handles the edit form. An empty password keeps the current one.
func (h *Handler) UpdateAdmin(c echo.Context) error {
	form := adminForm{
		ID:     c.Param("id"),
		Email:  strings.TrimSpace(c.FormValue("email")),
		Role:   c.FormValue("role"),
		IsEdit: true,
	}
	input := ports.UpdateUserInput{Email: &form.Email, Role: &form.Role}
	if password := c.FormValue("password"); password != "" {
		if password != c.FormValue("confirm_password") {
			return h.renderAdminForm(c, http.StatusBadRequest, form, "passwords do not match")
		}
		input.Password = &password
	}

	if _, err := h.svc.Users.Update(c.Request().Context(), form.ID, input); err != nil {
		if isFormError(err) {
			return h.renderAdminForm(c, statusOf(err), form, messageOf(err))
		}
		return err
	}
	metrics.RecordMutation("user", "update")
	return redirectWithFlash(c, homePath+"/admins", "User updated")
}

func (h *Handler) ConfirmDeleteAdmin(c echo.Context) error {
	u, err := h.svc.Users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	data := confirmData{
		Heading: "Delete user",
		Subject: u.Email,
		Action:  c.Request().URL.Path,
		Cancel:  homePath + "/admins",
	}
	if me := session.User(c); me != nil && me.ID == u.ID {
		data.Warning = "You are about to delete your own account and will be signed out."
	}
	return c.Render(http.StatusOK, "confirm.html", Page{Title: "Delete user", Data: data})
}

func (h *Handler) DeleteAdmin(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.Users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.RecordMutation("user", "delete")
	if me := session.User(c); me != nil && me.ID == id {
		h.cookies.Clear(c)
		return c.Redirect(http.StatusSeeOther, loginPath)
	}
	return redirectWithFlash(c, homePath+"/admins", "User deleted")
}

func (h *Handler) renderAdminForm(c echo.Context, status int, form adminForm, errMsg string) error {
	form.Roles = roles
	title := "New user"
	form.Action = homePath + "/admins/new"
	if form.IsEdit {
		title = "Edit user"
		form.Action = homePath + "/admins/" + form.ID + "/edit"
	}
	return c.Render(status, "admin_form.html", Page{Title: title, Error: errMsg, Data: form})
}
