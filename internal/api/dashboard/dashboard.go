// Package dashboard serves the server-rendered back-office pages. Pages reuse
// the same services as the JSON API and authenticate through the session
// cookie.
package dashboard

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/travelguard/backoffice/internal/api/metrics"
	"github.com/travelguard/backoffice/internal/api/middleware"
	"github.com/travelguard/backoffice/internal/api/session"
	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

const (
	loginPath = "/login"
	homePath  = "/dashboard"
	pageSize  = 10
)

// Services groups the core services the pages call.
type Services struct {
	Users      ports.UserService
	Auth       ports.AuthService
	Clients    ports.ClientService
	Insurances ports.InsuranceService
}

type Handler struct {
	svc     Services
	cookies session.Cookies
	log     zerolog.Logger
}

func New(svc Services, cookies session.Cookies, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, cookies: cookies, log: log}
}

// Register mounts the login pages and the authenticated /dashboard tree.
// loginMW is applied to the login form submission.
func (h *Handler) Register(e *echo.Echo, loginMW ...echo.MiddlewareFunc) {
	e.GET("/", func(c echo.Context) error { return c.Redirect(http.StatusSeeOther, homePath) })
	e.GET(loginPath, h.LoginForm)
	e.POST(loginPath, h.Login, loginMW...)
	e.POST("/logout", h.Logout)

	g := e.Group(homePath, middleware.DashboardAuth(h.svc.Auth, loginPath))
	g.GET("", h.Home)

	g.GET("/clients", h.Clients)
	g.GET("/clients/:id/delete", h.ConfirmDeleteClient)
	g.POST("/clients/:id/delete", h.DeleteClient)

	g.GET("/insurances", h.Insurances)
	g.POST("/insurances/:id/cancel", h.CancelInsurance)
	g.GET("/insurances/:id/delete", h.ConfirmDeleteInsurance)
	g.POST("/insurances/:id/delete", h.DeleteInsurance)

	admins := g.Group("/admins", middleware.RBAC(domain.RoleAdmin))
	admins.GET("", h.Admins)
	admins.GET("/new", h.NewAdminForm)
	admins.POST("/new", h.CreateAdmin)
	admins.GET("/:id/edit", h.EditAdminForm)
	admins.POST("/:id/edit", h.UpdateAdmin)
	admins.GET("/:id/delete", h.ConfirmDeleteAdmin)
	admins.POST("/:id/delete", h.DeleteAdmin)
}

type loginData struct {
	Email string
}

// LoginForm shows the login page, or sends an already signed-in user home.
func (h *Handler) LoginForm(c echo.Context) error {
	if tok := session.Token(c); tok != "" {
		if u, err := h.svc.Auth.ValidateToken(c.Request().Context(), tok); err == nil && u != nil {
			return c.Redirect(http.StatusSeeOther, homePath)
		}
	}
	return c.Render(http.StatusOK, "login.html", Page{Title: "Sign in", Data: loginData{}})
}

// Login handles the login form.
func (h *Handler) Login(c echo.Context) error {
	input := ports.LoginInput{
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: c.FormValue("password"),
	}
	fail := func(err error) error {
		return c.Render(statusOf(err), "login.html", Page{
			Title: "Sign in",
			Error: messageOf(err),
			Data:  loginData{Email: input.Email},
		})
	}

	if err := h.svc.Auth.ValidateLoginData(input); err != nil {
		return fail(err)
	}
	res, err := h.svc.Auth.Login(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			return err
		}
		return fail(err)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	h.cookies.Set(c, res.Token)
	return c.Redirect(http.StatusSeeOther, homePath)
}

// Logout clears the session and returns to the login page.
func (h *Handler) Logout(c echo.Context) error {
	if tok := session.Token(c); tok != "" {
		if err := h.svc.Auth.Logout(c.Request().Context(), tok); err != nil {
			h.log.Debug().Err(err).Msg("logout with invalid token")
		}
	}
	h.cookies.Clear(c)
	return c.Redirect(http.StatusSeeOther, loginPath)
}

type homeData struct {
	Clients          int64
	Insurances       int64
	ActiveInsurances int64
	Users            int64
}

// Home shows entity counts.
func (h *Handler) Home(c echo.Context) error {
	ctx := c.Request().Context()
	one := ports.Page{Limit: 1}

	clients, err := h.svc.Clients.FindAll(ctx, ports.ClientFilter{Page: one})
	if err != nil {
		return err
	}
	insurances, err := h.svc.Insurances.FindAll(ctx, ports.InsuranceFilter{Page: one})
	if err != nil {
		return err
	}
	active, err := h.svc.Insurances.FindAll(ctx, ports.InsuranceFilter{Status: domain.InsuranceActive, Page: one})
	if err != nil {
		return err
	}
	users, err := h.svc.Users.FindAll(ctx, ports.UserFilter{Page: one})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "home.html", Page{
		Title: "Dashboard",
		Flash: c.QueryParam("flash"),
		Data: homeData{
			Clients:          clients.Total,
			Insurances:       insurances.Total,
			ActiveInsurances: active.Total,
			Users:            users.Total,
		},
	})
}

// pager is the pagination state shown under each table.
type pager struct {
	Page       int
	TotalPages int
	Total      int64
	PrevURL    string
	NextURL    string
}

func newPager[T any](c echo.Context, p *ports.Paged[T]) pager {
	out := pager{Page: p.Page, TotalPages: p.TotalPages(), Total: p.Total}
	q := c.Request().URL.Query()
	if p.HasPrev() {
		q.Set("page", strconv.Itoa(p.Page-1))
		out.PrevURL = c.Request().URL.Path + "?" + q.Encode()
	}
	if p.HasNext() {
		q.Set("page", strconv.Itoa(p.Page+1))
		out.NextURL = c.Request().URL.Path + "?" + q.Encode()
	}
	return out
}

// pageParam reads ?page=, ignoring anything that is not a positive integer.
func pageParam(c echo.Context) ports.Page {
	n, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || n < 1 {
		n = 1
	}
	return ports.Page{Page: n, Limit: pageSize}
}

func redirectWithFlash(c echo.Context, to, flash string) error {
	return c.Redirect(http.StatusSeeOther, to+"?flash="+url.QueryEscape(flash))
}

func statusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials, domain.KindInvalidToken, domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInvalidState:
		return http.StatusUnprocessableEntity
	case domain.KindTooManyAttempts:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// messageOf renders a domain error for display inside a form.
func messageOf(err error) string {
	var de *domain.Error
	if !errors.As(err, &de) {
		return "something went wrong, please try again"
	}
	if len(de.Details) > 0 {
		return strings.Join(de.Details, "; ")
	}
	return de.Error()
}

// isFormError reports whether err should be shown on the form instead of the
// error page.
func isFormError(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindConflict, domain.KindInvalidState:
		return true
	}
	return false
}
