package dashboard

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/core/domain"
)

func TestRenderer_RendersEveryPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	admin := &domain.PublicUser{ID: "u1", Email: "admin@local.dev", Role: domain.RoleAdmin}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	p := pager{Page: 1, TotalPages: 2, Total: 11, NextURL: "/dashboard/clients?page=2"}

	cases := []struct {
		name string
		data Page
		want string
	}{
		{"login.html", Page{Data: loginData{Email: "a@b.com"}}, `value="a@b.com"`},
		{"home.html", Page{User: admin, Data: homeData{Clients: 3, Insurances: 2, ActiveInsurances: 1, Users: 1}}, "Active insurances"},
		{"clients.html", Page{User: admin, Data: clientsData{Query: "silva", Clients: []*domain.Client{{ID: "c1", Name: "João Silva", CreatedAt: now}}, Pager: p}}, "João Silva"},
		{"insurances.html", Page{User: admin, Data: insurancesData{
			Status:     "active",
			Statuses:   statuses,
			Insurances: []*domain.Insurance{{ID: "i1", PolicyNumber: "POL-001-2024", Status: domain.InsuranceActive, StartDate: now, EndDate: now}},
			Pager:      p,
		}}, "status-active"},
		{"admins.html", Page{User: admin, Data: adminsData{Users: []*domain.PublicUser{admin}, Pager: p}}, "/dashboard/admins/u1/edit"},
		{"admin_form.html", Page{User: admin, Title: "Edit user", Data: adminForm{ID: "u1", Email: "admin@local.dev", Role: "ADMIN", Roles: roles, IsEdit: true}}, "leave blank to keep"},
		{"confirm.html", Page{User: admin, Data: confirmData{Heading: "Delete client", Subject: "Ana", Action: "/x", Cancel: "/y"}}, "<strong>Ana</strong>"},
	}

	for _, tc := range cases {
		var buf bytes.Buffer
		if err := r.Render(&buf, tc.name, tc.data, nil); err != nil {
			t.Fatalf("%s: render: %v", tc.name, err)
		}
		if !strings.Contains(buf.String(), tc.want) {
			t.Errorf("%s: expected %q in output", tc.name, tc.want)
		}
	}
}

func TestRenderer_WrapsPlainData(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/dashboard", nil), httptest.NewRecorder())

	var buf bytes.Buffer
	data := struct{ Code, Message string }{"NOT_FOUND", "client not found"}
	if err := r.Render(&buf, "error.html", data, c); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "client not found") {
		t.Fatalf("expected message in error page")
	}

	if err := r.Render(&buf, "missing.html", nil, c); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}
