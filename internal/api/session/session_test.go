package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestToken_Sources(t *testing.T) {
	e := echo.New()
	cases := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"none", "", "", ""},
		{"bearer", "Bearer abc", "", "abc"},
		{"bearer lowercase", "bearer abc", "", "abc"},
		{"cookie", "", "xyz", "xyz"},
		{"header wins", "Bearer abc", "xyz", "abc"},
		{"malformed header", "Token abc", "xyz", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set(echo.HeaderAuthorization, tc.header)
		}
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: tc.cookie})
		}
		c := e.NewContext(req, httptest.NewRecorder())
		if got := Token(c); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestCookies_SetAndClear(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	Cookies{Secure: true}.Set(c, "tok")
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != CookieName || ck.Value != "tok" || !ck.HttpOnly || !ck.Secure || ck.MaxAge != 86400 || ck.Path != "/" || ck.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie: %+v", ck)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	Cookies{}.Clear(c)
	ck = rec.Result().Cookies()[0]
	if ck.Value != "" || ck.MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", ck)
	}
}
