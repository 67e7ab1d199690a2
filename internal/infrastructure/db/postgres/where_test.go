package postgres

import (
	"testing"
	"time"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

func TestWhereBuilder_Empty(t *testing.T) {
	w := &whereBuilder{}
	if w.sql() != "" || len(w.args) != 0 {
		t.Fatalf("expected empty clause, got %q %v", w.sql(), w.args)
	}
}

func TestClientWhere_SearchAcrossColumns(t *testing.T) {
	w := clientWhere(ports.ClientFilter{Search: "50%_off", Phone: "11"})

	want := " WHERE (name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1) AND phone ILIKE $2"
	if w.sql() != want {
		t.Fatalf("unexpected sql:\n got %q\nwant %q", w.sql(), want)
	}
	if w.args[0] != `%50\%\_off%` || w.args[1] != "%11%" {
		t.Fatalf("unexpected args: %v", w.args)
	}
}

func TestInsuranceWhere_AllPredicates(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w := insuranceWhere(ports.InsuranceFilter{
		ClientID:     "c1",
		PolicyNumber: "POL",
		Status:       domain.InsuranceActive,
		StartFrom:    from,
		EndTo:        from.AddDate(1, 0, 0),
	})

	want := " WHERE client_id = $1 AND policy_number ILIKE $2 AND status = $3 AND start_date >= $4 AND end_date <= $5"
	if w.sql() != want {
		t.Fatalf("unexpected sql:\n got %q\nwant %q", w.sql(), want)
	}
	if len(w.args) != 5 {
		t.Fatalf("expected 5 args, got %d", len(w.args))
	}
}

func TestInsuranceWhere_StatusAsReadAtNow(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	w := insuranceWhere(ports.InsuranceFilter{Status: domain.InsuranceActive, Now: now})
	if want := " WHERE status = $1 AND end_date >= $2"; w.sql() != want {
		t.Fatalf("unexpected active sql:\n got %q\nwant %q", w.sql(), want)
	}
	if w.args[0] != domain.InsuranceActive || w.args[1] != now {
		t.Fatalf("unexpected active args: %v", w.args)
	}

	w = insuranceWhere(ports.InsuranceFilter{ClientID: "c1", Status: domain.InsuranceExpired, Now: now})
	if want := " WHERE client_id = $1 AND (status = $2 OR (status = $3 AND end_date < $4))"; w.sql() != want {
		t.Fatalf("unexpected expired sql:\n got %q\nwant %q", w.sql(), want)
	}
	if w.args[1] != domain.InsuranceExpired || w.args[2] != domain.InsuranceActive || w.args[3] != now {
		t.Fatalf("unexpected expired args: %v", w.args)
	}

	w = insuranceWhere(ports.InsuranceFilter{Status: domain.InsuranceCanceled, Now: now})
	if want := " WHERE status = $1"; w.sql() != want {
		t.Fatalf("unexpected canceled sql: %q", w.sql())
	}
}

func TestUserWhere(t *testing.T) {
	w := userWhere(ports.UserFilter{Email: "corp", Role: domain.RoleStaff})
	if w.sql() != " WHERE email ILIKE $1 AND role = $2" {
		t.Fatalf("unexpected sql: %q", w.sql())
	}
}

func TestSetBuilder(t *testing.T) {
	b := &setBuilder{}
	b.set("name", "Ana")
	b.set("phone", "123")
	got := b.sql() + " WHERE id = " + b.arg("c1")

	want := "name = $1, phone = $2, updated_at = NOW() WHERE id = $3"
	if got != want {
		t.Fatalf("unexpected sql:\n got %q\nwant %q", got, want)
	}

	empty := &setBuilder{}
	if empty.sql() != "updated_at = NOW()" {
		t.Fatalf("expected bare timestamp update, got %q", empty.sql())
	}
}
