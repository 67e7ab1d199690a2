package dashboard

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/metrics"
	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type insurancesData struct {
	Status     string
	Statuses   []domain.InsuranceStatus
	Insurances []*domain.Insurance
	Pager      pager
}

var statuses = []domain.InsuranceStatus{domain.InsuranceActive, domain.InsuranceExpired, domain.InsuranceCanceled}

// Insurances lists policies, optionally filtered by ?status=. Unknown
// statuses are ignored.
func (h *Handler) Insurances(c echo.Context) error {
	filter := ports.InsuranceFilter{Page: pageParam(c)}
	if st, ok := domain.ParseInsuranceStatus(c.QueryParam("status")); ok {
		filter.Status = st
	}

	res, err := h.svc.Insurances.FindAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "insurances.html", Page{
		Title: "Insurances",
		Flash: c.QueryParam("flash"),
		Error: c.QueryParam("error"),
		Data: insurancesData{
			Status:     string(filter.Status),
			Statuses:   statuses,
			Insurances: res.Items,
			Pager:      newPager(c, res),
		},
	})
}

// CancelInsurance cancels a policy and goes back to the list. Cancelling an
// already canceled policy is reported on the list page.
func (h *Handler) CancelInsurance(c echo.Context) error {
	_, err := h.svc.Insurances.CancelInsurance(c.Request().Context(), c.Param("id"))
	if err != nil {
		if isFormError(err) {
			return c.Redirect(http.StatusSeeOther, homePath+"/insurances?error="+url.QueryEscape(messageOf(err)))
		}
		return err
	}
	metrics.RecordMutation("insurance", "cancel")
	metrics.InsuranceStatusTotal.WithLabelValues(string(domain.InsuranceCanceled)).Inc()
	return redirectWithFlash(c, homePath+"/insurances", "Insurance canceled")
}

func (h *Handler) ConfirmDeleteInsurance(c echo.Context) error {
	ins, err := h.svc.Insurances.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "confirm.html", Page{
		Title: "Delete insurance",
		Data: confirmData{
			Heading: "Delete insurance",
			Subject: ins.PolicyNumber,
			Action:  c.Request().URL.Path,
			Cancel:  homePath + "/insurances",
		},
	})
}

func (h *Handler) DeleteInsurance(c echo.Context) error {
	if err := h.svc.Insurances.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.RecordMutation("insurance", "delete")
	return redirectWithFlash(c, homePath+"/insurances", "Insurance deleted")
}
