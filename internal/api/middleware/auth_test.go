package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/session"
	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type stubAuthService struct {
	users map[string]*domain.PublicUser
	err   error
}

func (s *stubAuthService) Login(context.Context, ports.LoginInput) (*ports.LoginResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) ValidateToken(_ context.Context, token string) (*domain.PublicUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[token], nil
}

func (s *stubAuthService) Logout(context.Context, string) error { return nil }

func (s *stubAuthService) ValidateLoginData(ports.LoginInput) error { return nil }

func newStub() *stubAuthService {
	return &stubAuthService{users: map[string]*domain.PublicUser{
		"good": {ID: "u1", Email: "alice@example.com", Role: domain.RoleAdmin},
	}}
}

func TestAuthMiddleware_ValidBearer(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(newStub())(func(c echo.Context) error {
		called = true
		u := session.User(c)
		if u == nil || u.ID != "u1" {
			t.Fatalf("user not set: %+v", u)
		}
		if c.Get("role") != "ADMIN" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Cookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "good"})
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	handler := Auth(newStub())(func(c echo.Context) error {
		called = true
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrUnauthorized},
		{"invalid header format", "Token abc", domain.ErrUnauthorized},
		{"invalid token", "Bearer not-a-token", domain.ErrInvalidToken},
	}
	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		handler := Auth(newStub())(func(c echo.Context) error {
			t.Fatalf("%s: should not reach next", tc.name)
			return nil
		})
		if err := handler(c); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestAuthMiddleware_ServiceError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	c := e.NewContext(req, httptest.NewRecorder())

	boom := errors.New("storage down")
	handler := Auth(&stubAuthService{err: boom})(func(c echo.Context) error { return nil })
	if err := handler(c); !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestDashboardAuth_RedirectsToLogin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := DashboardAuth(newStub(), "/login")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
