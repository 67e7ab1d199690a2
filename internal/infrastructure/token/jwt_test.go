package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestManager_IssueVerify(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewManager("secret", "backoffice", 0).WithClock(fixedClock(now))

	signed, err := m.Issue(ports.TokenClaims{UserID: "u1", Email: "a@b.com", Role: domain.RoleStaff})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@b.com" || claims.Role != domain.RoleStaff {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(now.Add(DefaultTTL)) {
		t.Fatalf("expected 24h expiry, got %s", claims.ExpiresAt)
	}
}

func TestManager_Expired(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewManager("secret", "", time.Hour).WithClock(fixedClock(now))

	signed, err := m.Issue(ports.TokenClaims{UserID: "u1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m.WithClock(fixedClock(now.Add(2 * time.Hour)))
	if _, err := m.Verify(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestManager_RejectsTamperedAndForeign(t *testing.T) {
	m := NewManager("secret", "", 0)
	other := NewManager("other-secret", "", 0)

	signed, err := other.Issue(ports.TokenClaims{UserID: "u1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(signed); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
	if _, err := m.Verify("not-a-token"); err == nil {
		t.Fatalf("expected malformed token to be rejected")
	}
	if _, err := m.Verify(""); err == nil {
		t.Fatalf("expected empty token to be rejected")
	}
}

func TestManager_RejectsOtherAlgorithms(t *testing.T) {
	m := NewManager("secret", "", 0)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"userId": "u1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := m.Verify(signed); err == nil {
		t.Fatalf("expected HS512 token to be rejected")
	}
}
