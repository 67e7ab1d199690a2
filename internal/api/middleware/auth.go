package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/session"
	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

// Auth resolves the bearer header or session cookie into a user and injects
// it into the context. Missing sessions fail with ErrUnauthorized and
// sessions that no longer verify with ErrInvalidToken.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return authenticate(auth, func(_ echo.Context, err error) error { return err })
}

// DashboardAuth behaves like Auth but redirects the browser to the login page
// instead of failing.
func DashboardAuth(auth ports.AuthService, loginPath string) echo.MiddlewareFunc {
	return authenticate(auth, func(c echo.Context, _ error) error {
		return c.Redirect(http.StatusSeeOther, loginPath)
	})
}

func authenticate(auth ports.AuthService, deny func(echo.Context, error) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := session.Token(c)
			if tok == "" {
				return deny(c, domain.ErrUnauthorized)
			}

			user, err := auth.ValidateToken(c.Request().Context(), tok)
			if err != nil {
				return err
			}
			if user == nil {
				return deny(c, domain.ErrInvalidToken)
			}

			session.SetUser(c, user)
			return next(c)
		}
	}
}
