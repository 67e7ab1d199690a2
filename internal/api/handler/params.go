package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

const dateLayout = "2006-01-02"

// pageParams reads page and limit from the query string. Absent values are
// left at zero for ports.Page.Normalize to default.
func pageParams(c echo.Context) (ports.Page, error) {
	var p ports.Page
	var bad []string
	for _, f := range []struct {
		name string
		dst  *int
	}{{"page", &p.Page}, {"limit", &p.Limit}} {
		raw := strings.TrimSpace(c.QueryParam(f.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			bad = append(bad, f.name+" must be a positive integer")
			continue
		}
		*f.dst = n
	}
	if len(bad) > 0 {
		return p, domain.NewValidationError("invalid pagination", bad...)
	}
	return p, nil
}

// parseDate accepts a calendar date (2024-01-31) or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// dateQuery parses an optional date query parameter. An absent parameter
// yields the zero time.
func dateQuery(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError("invalid query parameter", name+" must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	return t, nil
}
