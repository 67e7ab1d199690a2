package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/core/ports"
)

// Envelope is the shape of every JSON response.
type Envelope struct {
	Data  any       `json:"data"`
	Meta  Meta      `json:"meta"`
	Links Links     `json:"links"`
	Error *APIError `json:"error"`
}

// Meta carries response metadata. Pagination fields are only set on lists.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Page      int       `json:"page,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	Total     *int64    `json:"total,omitempty"`
}

type Links struct {
	Self string `json:"self,omitempty"`
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

// APIError is the error member of a failed response.
type APIError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func newMeta(c echo.Context) Meta {
	return Meta{
		Timestamp: time.Now().UTC(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	}
}

// respond writes data inside the success envelope.
func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{
		Data:  data,
		Meta:  newMeta(c),
		Links: Links{Self: c.Request().URL.RequestURI()},
	})
}

// respondPage writes one page of a list with pagination meta and links.
func respondPage[T any](c echo.Context, page *ports.Paged[T]) error {
	meta := newMeta(c)
	meta.Page = page.Page
	meta.Limit = page.Limit
	total := page.Total
	meta.Total = &total

	links := Links{Self: c.Request().URL.RequestURI()}
	if page.HasNext() {
		links.Next = pageURL(c.Request().URL, page.Page+1)
	}
	if page.HasPrev() {
		links.Prev = pageURL(c.Request().URL, page.Page-1)
	}

	return c.JSON(http.StatusOK, Envelope{Data: page.Items, Meta: meta, Links: links})
}

// RenderError writes a failure envelope. It is shared with the central error
// handler so every error uses the same shape.
func RenderError(c echo.Context, status int, apiErr APIError) error {
	return c.JSON(status, Envelope{Meta: newMeta(c), Error: &apiErr})
}

func pageURL(u *url.URL, page int) string {
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	next := *u
	next.RawQuery = q.Encode()
	return next.RequestURI()
}
