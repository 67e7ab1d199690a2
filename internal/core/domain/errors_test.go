package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("create client: %w", ErrEmailInUse)

	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected wrapped email conflict to match ErrConflict")
	}
	if !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected wrapped error to match its own sentinel")
	}
	if errors.Is(err, ErrPolicyNumberInUse) {
		t.Fatalf("different conflict messages must not match")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("conflict must not match not-found")
	}
}

func TestError_MessageWithDetails(t *testing.T) {
	err := NewValidationError("invalid user data", MsgEmailInvalid, MsgPasswordTooShort)

	want := "invalid user data: " + MsgEmailInvalid + "; " + MsgPasswordTooShort
	if err.Error() != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", err.Error(), want)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation kind")
	}
	if len(DetailsOf(err)) != 2 {
		t.Fatalf("expected 2 details, got %v", DetailsOf(err))
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(ErrAlreadyCanceled) != KindInvalidState {
		t.Fatalf("expected invalid state kind")
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("expected unclassified error to be internal")
	}
	if KindInternal.Code() != "INTERNAL_ERROR" || KindTooManyAttempts.Code() != "TOO_MANY_ATTEMPTS" {
		t.Fatalf("unexpected codes")
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "admin@local.dev", "joao.silva@email.com"}
	invalid := []string{"", "bad-email", "a@b", "a b@c.com", "@b.com"}

	for _, s := range valid {
		if !ValidEmail(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if ValidEmail(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}
