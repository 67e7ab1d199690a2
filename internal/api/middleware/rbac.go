package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/session"
	"github.com/travelguard/backoffice/internal/core/domain"
)

// RBAC admits only users holding one of roles. Mount it after Auth or
// DashboardAuth so the session user is already set.
func RBAC(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch u := session.User(c); {
			case u == nil:
				return domain.ErrUnauthorized
			case !slices.Contains(roles, u.Role):
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
