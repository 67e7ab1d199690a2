package dashboard

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/metrics"
	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type clientsData struct {
	Query   string
	Clients []*domain.Client
	Pager   pager
}

// Clients lists clients matching ?q= across name, email and phone.
func (h *Handler) Clients(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	res, err := h.svc.Clients.FindAll(c.Request().Context(), ports.ClientFilter{Search: q, Page: pageParam(c)})
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "clients.html", Page{
		Title: "Clients",
		Flash: c.QueryParam("flash"),
		Data:  clientsData{Query: q, Clients: res.Items, Pager: newPager(c, res)},
	})
}

type confirmData struct {
	Heading string
	Subject string
	Warning string
	Action  string
	Cancel  string
}

// ConfirmDeleteClient asks before deleting a client and its policies.
func (h *Handler) ConfirmDeleteClient(c echo.Context) error {
	cl, err := h.svc.Clients.GetWithInsurances(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	warning := ""
	if len(cl.Insurances) > 0 {
		warning = "This client's insurances will be deleted as well."
	}
	return c.Render(http.StatusOK, "confirm.html", Page{
		Title: "Delete client",
		Data: confirmData{
			Heading: "Delete client",
			Subject: cl.Name,
			Warning: warning,
			Action:  c.Request().URL.Path,
			Cancel:  homePath + "/clients",
		},
	})
}

func (h *Handler) DeleteClient(c echo.Context) error {
	if err := h.svc.Clients.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.RecordMutation("client", "delete")
	return redirectWithFlash(c, homePath+"/clients", "Client deleted")
}
