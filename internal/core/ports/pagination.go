package ports

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page carries the 1-based page number and page size of a list query.
type Page struct {
	Page  int
	Limit int
}

// Normalize applies defaults and caps the limit.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Paged is one page of results plus the total number of matching rows.
type Paged[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// NewPaged builds a Paged from a normalised page request.
func NewPaged[T any](items []T, total int64, p Page) *Paged[T] {
	p = p.Normalize()
	if items == nil {
		items = []T{}
	}
	return &Paged[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit}
}

// TotalPages is the number of pages needed to show Total rows.
func (p *Paged[T]) TotalPages() int {
	if p.Limit <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

// HasNext reports whether a page follows this one.
func (p *Paged[T]) HasNext() bool { return p.Page < p.TotalPages() }

// HasPrev reports whether a page precedes this one.
func (p *Paged[T]) HasPrev() bool { return p.Page > 1 }
