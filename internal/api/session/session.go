// Package session reads and writes the auth_token cookie that carries the
// signed session token between the browser and the server.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/core/domain"
)

const (
	CookieName = "auth_token"
	MaxAge     = 24 * time.Hour
)

// Cookies builds session cookies. Secure is set in production.
type Cookies struct {
	Secure bool
}

// Set stores token in the session cookie.
func (s Cookies) Set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func (s Cookies) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token returns the session token from the Authorization bearer header or,
// failing that, from the cookie. It returns "" when neither is present.
func Token(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if ck, err := c.Cookie(CookieName); err == nil {
		return ck.Value
	}
	return ""
}

// UserKey is the echo context key holding the authenticated *domain.PublicUser.
const UserKey = "user"

// SetUser stores the authenticated user on the request context.
func SetUser(c echo.Context, u *domain.PublicUser) {
	c.Set(UserKey, u)
	c.Set("role", string(u.Role))
}

// User returns the authenticated user, or nil on unauthenticated routes.
func User(c echo.Context) *domain.PublicUser {
	u, _ := c.Get(UserKey).(*domain.PublicUser)
	return u
}
