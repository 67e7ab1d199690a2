package domain

import (
	"testing"
	"time"
)

func TestInsuranceStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to InsuranceStatus
		want     bool
	}{
		{InsuranceActive, InsuranceExpired, true},
		{InsuranceActive, InsuranceCanceled, true},
		{InsuranceExpired, InsuranceCanceled, true},
		{InsuranceExpired, InsuranceActive, false},
		{InsuranceCanceled, InsuranceActive, false},
		{InsuranceCanceled, InsuranceExpired, false},
		{InsuranceActive, InsuranceActive, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestInitialStatus(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := InitialStatus(now.Add(-time.Second), now); got != InsuranceExpired {
		t.Fatalf("past end date: expected expired, got %s", got)
	}
	if got := InitialStatus(now, now); got != InsuranceActive {
		t.Fatalf("end date equal to now: expected active, got %s", got)
	}
	if got := InitialStatus(now.AddDate(1, 0, 0), now); got != InsuranceActive {
		t.Fatalf("future end date: expected active, got %s", got)
	}
}

func TestInsurance_EffectiveStatus(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ins := &Insurance{Status: InsuranceActive, EndDate: now.AddDate(0, 0, -1)}

	if got := ins.EffectiveStatus(now); got != InsuranceExpired {
		t.Fatalf("expected lapsed active policy to read as expired, got %s", got)
	}

	ins.Status = InsuranceCanceled
	if got := ins.EffectiveStatus(now); got != InsuranceCanceled {
		t.Fatalf("canceled must stay canceled, got %s", got)
	}

	ins.Status = InsuranceActive
	ins.EndDate = now.AddDate(0, 1, 0)
	if got := ins.EffectiveStatus(now); got != InsuranceActive {
		t.Fatalf("expected active, got %s", got)
	}
}

func TestParseInsuranceStatus(t *testing.T) {
	if st, ok := ParseInsuranceStatus(" Active "); !ok || st != InsuranceActive {
		t.Fatalf("expected active, got %q ok=%v", st, ok)
	}
	if _, ok := ParseInsuranceStatus("pending"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
}
