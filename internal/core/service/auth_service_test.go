package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
	"github.com/travelguard/backoffice/internal/infrastructure/token"
)

type stubGuard struct {
	failures map[string]int
	limit    int
	err      error
}

func newStubGuard(limit int) *stubGuard {
	return &stubGuard{failures: make(map[string]int), limit: limit}
}

func (g *stubGuard) Allow(_ context.Context, key string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	return g.failures[key] < g.limit, nil
}

func (g *stubGuard) RecordFailure(_ context.Context, key string) error {
	g.failures[key]++
	return g.err
}

func (g *stubGuard) Reset(_ context.Context, key string) error {
	delete(g.failures, key)
	return g.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newAuthFixture(t *testing.T, guard ports.LoginGuard) (*AuthService, *fixture, *clock) {
	t.Helper()
	f := newFixture(t)
	clk := &clock{t: testNow}
	tokens := token.NewManager("secret", "backoffice", 24*time.Hour).WithClock(clk.now)
	svc := NewAuthService(f.users, tokens, guard, zerolog.Nop())

	if _, err := f.users.Create(context.Background(), ports.CreateUserInput{Email: "carol@example.com", Password: "s3cret!", Role: "STAFF"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return svc, f, clk
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)

	res, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@example.com", Password: "s3cret!"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User == nil || res.User.Email != "carol@example.com" || res.User.Role != domain.RoleStaff {
		t.Fatalf("unexpected user: %+v", res.User)
	}
}

func TestAuthService_Login_SameErrorForBothFailures(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)
	ctx := context.Background()

	_, errUnknown := svc.Login(ctx, ports.LoginInput{Email: "nobody@example.com", Password: "s3cret!"})
	_, errWrong := svc.Login(ctx, ports.LoginInput{Email: "carol@example.com", Password: "wrong-pass"})

	if errUnknown != domain.ErrInvalidCredentials || errWrong != domain.ErrInvalidCredentials {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v and %v", errUnknown, errWrong)
	}
}

func TestAuthService_ValidateToken_RoundTrip(t *testing.T) {
	svc, _, clk := newAuthFixture(t, nil)
	ctx := context.Background()

	res, err := svc.Login(ctx, ports.LoginInput{Email: "carol@example.com", Password: "s3cret!"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	u, err := svc.ValidateToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if u == nil || u.ID != res.User.ID {
		t.Fatalf("expected user %s, got %+v", res.User.ID, u)
	}

	clk.t = clk.t.Add(25 * time.Hour)
	u, err = svc.ValidateToken(ctx, res.Token)
	if err != nil || u != nil {
		t.Fatalf("expected (nil, nil) after expiry, got (%+v, %v)", u, err)
	}
}

func TestAuthService_ValidateToken_Invalid(t *testing.T) {
	svc, f, _ := newAuthFixture(t, nil)
	ctx := context.Background()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		u, err := svc.ValidateToken(ctx, tok)
		if err != nil || u != nil {
			t.Fatalf("token %q: expected (nil, nil), got (%+v, %v)", tok, u, err)
		}
	}

	res, _ := svc.Login(ctx, ports.LoginInput{Email: "carol@example.com", Password: "s3cret!"})
	if err := f.users.Delete(ctx, res.User.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	u, err := svc.ValidateToken(ctx, res.Token)
	if err != nil || u != nil {
		t.Fatalf("expected nil for deleted user, got (%+v, %v)", u, err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)
	ctx := context.Background()

	assertKind(t, svc.Logout(ctx, "garbage"), domain.ErrInvalidToken)

	res, _ := svc.Login(ctx, ports.LoginInput{Email: "carol@example.com", Password: "s3cret!"})
	if err := svc.Logout(ctx, res.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	// stateless: the token still validates afterwards
	if u, _ := svc.ValidateToken(ctx, res.Token); u == nil {
		t.Fatalf("expected token to remain valid after logout")
	}
}

func TestAuthService_ValidateLoginData(t *testing.T) {
	svc := NewAuthService(nil, nil, nil, zerolog.Nop())

	cases := []struct {
		in   ports.LoginInput
		rule string
	}{
		{ports.LoginInput{Password: "secret1"}, domain.MsgEmailRequired},
		{ports.LoginInput{Email: "a@b.com"}, domain.MsgPasswordRequired},
		{ports.LoginInput{Email: "bad-email", Password: "secret1"}, domain.MsgEmailInvalid},
		{ports.LoginInput{Email: "a@b.com", Password: "123"}, domain.MsgPasswordTooShort},
	}
	for _, tc := range cases {
		err := svc.ValidateLoginData(tc.in)
		assertKind(t, err, domain.ErrValidation)
		if d := domain.DetailsOf(err); len(d) != 1 || d[0] != tc.rule {
			t.Errorf("%+v: expected rule %q, got %v", tc.in, tc.rule, d)
		}
	}
	if err := svc.ValidateLoginData(ports.LoginInput{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatalf("expected valid login data, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	guard := newStubGuard(2)
	svc, _, _ := newAuthFixture(t, guard)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, ports.LoginInput{Email: "carol@example.com", Password: "wrong-pass"})
		assertKind(t, err, domain.ErrInvalidCredentials)
	}
	_, err := svc.Login(ctx, ports.LoginInput{Email: "Carol@example.com", Password: "s3cret!"})
	assertKind(t, err, domain.ErrTooManyAttempts)

	delete(guard.failures, "carol@example.com")
	if _, err := svc.Login(ctx, ports.LoginInput{Email: "carol@example.com", Password: "s3cret!"}); err != nil {
		t.Fatalf("expected login after reset, got %v", err)
	}
}

func TestAuthService_Login_GuardFailureIgnored(t *testing.T) {
	guard := newStubGuard(5)
	guard.err = errors.New("redis down")
	svc, _, _ := newAuthFixture(t, guard)

	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@example.com", Password: "s3cret!"}); err != nil {
		t.Fatalf("expected login to proceed when guard fails, got %v", err)
	}
}
