package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestClient_JSONRendersAbsentFieldsAsNull(t *testing.T) {
	c := &Client{ID: "c1", Name: "Ana", Phone: "(11) 99999-9999", CreatedAt: time.Unix(0, 0).UTC()}

	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	email, ok := got["email"]
	if !ok || email != nil {
		t.Fatalf("expected email key with null value, got %s", raw)
	}
	if got["phone"] != "(11) 99999-9999" || got["name"] != "Ana" {
		t.Fatalf("unexpected fields: %s", raw)
	}
}

func TestClientWithInsurances_JSONKeepsPolicies(t *testing.T) {
	c := ClientWithInsurances{
		Client:     Client{ID: "c1", Name: "Ana"},
		Insurances: []*Insurance{{ID: "i1", PolicyNumber: "POL-1"}},
	}

	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got struct {
		ID         string  `json:"id"`
		Email      *string `json:"email"`
		Phone      *string `json:"phone"`
		Insurances []struct {
			PolicyNumber string `json:"policy_number"`
		} `json:"insurances"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != "c1" || got.Email != nil || got.Phone != nil {
		t.Fatalf("unexpected client fields: %s", raw)
	}
	if len(got.Insurances) != 1 || got.Insurances[0].PolicyNumber != "POL-1" {
		t.Fatalf("expected embedded policies, got %s", raw)
	}
}
