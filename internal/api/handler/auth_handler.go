package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/metrics"
	"github.com/travelguard/backoffice/internal/api/session"
	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     session.Cookies
}

func NewAuthHandler(authService ports.AuthService, cookies session.Cookies) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Login authenticates a user, sets the session cookie and returns the token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Envelope{data=loginResponse}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      429   {object}  Envelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.LoginInput{Email: req.Email, Password: req.Password}
	if err := h.authService.ValidateLoginData(input); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), input)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	h.cookies.Set(c, res.Token)
	return respond(c, http.StatusOK, loginResponse{User: res.User, Token: res.Token})
}

// Logout clears the session cookie. A token, when present, must verify.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.Clear(c)
	if tok := session.Token(c); tok != "" {
		if err := h.authService.Logout(c.Request().Context(), tok); err != nil {
			return err
		}
	}
	return respond(c, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=domain.PublicUser}
// @Failure      401  {object}  Envelope
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u)
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}
