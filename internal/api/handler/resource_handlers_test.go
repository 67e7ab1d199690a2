package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
	"github.com/travelguard/backoffice/internal/core/service"
	"github.com/travelguard/backoffice/internal/infrastructure/db/memory"
)

type handlers struct {
	e          *echo.Echo
	users      *UserHandler
	clients    *ClientHandler
	insurances *InsuranceHandler
	clientSvc  *service.ClientService
	insSvc     *service.InsuranceService
}

func newHandlers() *handlers {
	store := memory.New()
	log := zerolog.Nop()
	users := service.NewUserService(store.Users(), log)
	clients := service.NewClientService(store.Clients(), store.Insurances(), log)
	insurances := service.NewInsuranceService(store.Insurances(), store.Clients(), log)
	return &handlers{
		e:          newEcho(),
		users:      NewUserHandler(users),
		clients:    NewClientHandler(clients, insurances),
		insurances: NewInsuranceHandler(insurances),
		clientSvc:  clients,
		insSvc:     insurances,
	}
}

func (h *handlers) ctx(req *http.Request, names []string, values ...string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := h.e.NewContext(req, rec)
	if len(names) > 0 {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func TestClientHandler_CreateAndGet(t *testing.T) {
	h := newHandlers()

	c, rec := h.ctx(jsonRequest(http.MethodPost, "/api/clients", `{"name":"Ana","email":"ana@example.com"}`), nil)
	if err := h.clients.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	_, data := decodeEnvelope(t, rec)
	id, _ := data["id"].(string)
	if id == "" || data["name"] != "Ana" {
		t.Fatalf("unexpected payload: %+v", data)
	}
	if phone, ok := data["phone"]; !ok || phone != nil {
		t.Fatalf("expected phone: null, got %+v", data)
	}

	c, _ = h.ctx(jsonRequest(http.MethodPost, "/api/clients", `{"name":"Other","email":"ana@example.com"}`), nil)
	if err := h.clients.Create(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	c, _ = h.ctx(jsonRequest(http.MethodPost, "/api/clients", `{"email":"x@example.com"}`), nil)
	if err := h.clients.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	c, rec = h.ctx(httptest.NewRequest(http.MethodGet, "/api/clients/"+id, nil), []string{"id"}, id)
	if err := h.clients.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	_, data = decodeEnvelope(t, rec)
	if ins, ok := data["insurances"].([]any); !ok || len(ins) != 0 {
		t.Fatalf("expected empty insurances list, got %+v", data["insurances"])
	}

	c, _ = h.ctx(httptest.NewRequest(http.MethodGet, "/api/clients/missing", nil), []string{"id"}, "missing")
	if err := h.clients.Get(c); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClientHandler_ListPaginates(t *testing.T) {
	h := newHandlers()
	for _, name := range []string{"João Silva", "Maria Santos", "Pedro Oliveira"} {
		if _, err := h.clientSvc.Create(context.Background(), ports.CreateClientInput{Name: name}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	c, rec := h.ctx(httptest.NewRequest(http.MethodGet, "/api/clients?limit=2", nil), nil)
	if err := h.clients.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	env, _ := decodeEnvelope(t, rec)
	items, _ := env.Data.([]any)
	if len(items) != 2 || env.Meta.Total == nil || *env.Meta.Total != 3 || env.Meta.Page != 1 || env.Meta.Limit != 2 {
		t.Fatalf("unexpected page: items=%d meta=%+v", len(items), env.Meta)
	}
	if env.Links.Next != "/api/clients?limit=2&page=2" || env.Links.Prev != "" {
		t.Fatalf("unexpected links: %+v", env.Links)
	}

	c, rec = h.ctx(httptest.NewRequest(http.MethodGet, "/api/clients?q=SANTOS", nil), nil)
	if err := h.clients.List(c); err != nil {
		t.Fatalf("search: %v", err)
	}
	env, _ = decodeEnvelope(t, rec)
	if items, _ := env.Data.([]any); len(items) != 1 {
		t.Fatalf("expected one match, got %d", len(items))
	}

	c, _ = h.ctx(httptest.NewRequest(http.MethodGet, "/api/clients?page=zero", nil), nil)
	if err := h.clients.List(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for bad page, got %v", err)
	}
}

func TestClientHandler_Delete(t *testing.T) {
	h := newHandlers()
	cl, _ := h.clientSvc.Create(context.Background(), ports.CreateClientInput{Name: "Ana"})

	c, rec := h.ctx(httptest.NewRequest(http.MethodDelete, "/", nil), []string{"id"}, cl.ID)
	if err := h.clients.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = h.ctx(httptest.NewRequest(http.MethodDelete, "/", nil), []string{"id"}, cl.ID)
	if err := h.clients.Delete(c); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestInsuranceHandler_Lifecycle(t *testing.T) {
	h := newHandlers()
	cl, _ := h.clientSvc.Create(context.Background(), ports.CreateClientInput{Name: "Ana"})

	body := `{"client_id":"` + cl.ID + `","policy_number":"POL-1","coverage":"Full","start_date":"2099-01-01","end_date":"2099-12-31"}`
	c, rec := h.ctx(jsonRequest(http.MethodPost, "/api/insurances", body), nil)
	if err := h.insurances.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, data := decodeEnvelope(t, rec)
	id, _ := data["id"].(string)
	if data["status"] != "active" {
		t.Fatalf("expected active policy, got %+v", data)
	}

	c, _ = h.ctx(jsonRequest(http.MethodPost, "/api/insurances", body), nil)
	if err := h.insurances.Create(c); !errors.Is(err, domain.ErrPolicyNumberInUse) {
		t.Fatalf("expected policy conflict, got %v", err)
	}

	bad := `{"client_id":"` + cl.ID + `","policy_number":"POL-2","coverage":"Full","start_date":"01/02/2099","end_date":"2099-12-31"}`
	c, _ = h.ctx(jsonRequest(http.MethodPost, "/api/insurances", bad), nil)
	if err := h.insurances.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}

	c, rec = h.ctx(httptest.NewRequest(http.MethodGet, "/", nil), []string{"policyNumber"}, "POL-1")
	if err := h.insurances.ByPolicyNumber(c); err != nil {
		t.Fatalf("by policy: %v", err)
	}
	if _, data = decodeEnvelope(t, rec); data["id"] != id {
		t.Fatalf("expected %s, got %+v", id, data)
	}

	c, _ = h.ctx(jsonRequest(http.MethodPatch, "/", `{"end_date":"2098-01-01"}`), []string{"id"}, id)
	if err := h.insurances.Update(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected date range error, got %v", err)
	}

	c, rec = h.ctx(httptest.NewRequest(http.MethodPost, "/", nil), []string{"id"}, id)
	if err := h.insurances.Cancel(c); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, data = decodeEnvelope(t, rec); data["status"] != "canceled" {
		t.Fatalf("expected canceled, got %+v", data)
	}

	c, _ = h.ctx(httptest.NewRequest(http.MethodPost, "/", nil), []string{"id"}, id)
	if err := h.insurances.Cancel(c); !errors.Is(err, domain.ErrAlreadyCanceled) {
		t.Fatalf("expected already canceled, got %v", err)
	}

	c, _ = h.ctx(jsonRequest(http.MethodPatch, "/", `{"status":"active"}`), []string{"id"}, id)
	if err := h.insurances.Update(c); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	c, rec = h.ctx(httptest.NewRequest(http.MethodGet, "/api/insurances?status=canceled", nil), nil)
	if err := h.insurances.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	env, _ := decodeEnvelope(t, rec)
	if items, _ := env.Data.([]any); len(items) != 1 {
		t.Fatalf("expected one canceled policy, got %d", len(items))
	}

	c, _ = h.ctx(httptest.NewRequest(http.MethodGet, "/api/insurances?start_from=yesterday", nil), nil)
	if err := h.insurances.List(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for bad date filter, got %v", err)
	}

	c, rec = h.ctx(httptest.NewRequest(http.MethodGet, "/", nil), []string{"id"}, cl.ID)
	if err := h.clients.Insurances(c); err != nil {
		t.Fatalf("client insurances: %v", err)
	}
	env, _ = decodeEnvelope(t, rec)
	if items, _ := env.Data.([]any); len(items) != 1 {
		t.Fatalf("expected one client policy, got %d", len(items))
	}
}

func TestUserHandler_HidesPasswordHash(t *testing.T) {
	h := newHandlers()

	c, rec := h.ctx(jsonRequest(http.MethodPost, "/api/users", `{"email":"staff@example.com","password":"secret1","role":"STAFF"}`), nil)
	if err := h.users.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, data := decodeEnvelope(t, rec)
	if data["role"] != "STAFF" {
		t.Fatalf("unexpected payload: %+v", data)
	}
	for _, k := range []string{"password", "password_hash", "passwordHash"} {
		if _, ok := data[k]; ok {
			t.Fatalf("%s must not be exposed", k)
		}
	}

	c, rec = h.ctx(httptest.NewRequest(http.MethodGet, "/api/users?role=staff", nil), nil)
	if err := h.users.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	env, _ := decodeEnvelope(t, rec)
	if items, _ := env.Data.([]any); len(items) != 1 {
		t.Fatalf("expected one staff user, got %d", len(items))
	}

	c, _ = h.ctx(httptest.NewRequest(http.MethodGet, "/api/users?role=owner", nil), nil)
	if err := h.users.List(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected invalid role filter, got %v", err)
	}
}
