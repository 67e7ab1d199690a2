package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/session"
	"github.com/travelguard/backoffice/internal/core/domain"
)

// ctxUser returns the user injected by the auth middleware. A missing user
// means the route was mounted without authentication.
func ctxUser(c echo.Context) (*domain.PublicUser, error) {
	u := session.User(c)
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}
