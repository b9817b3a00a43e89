package pagination

import "math"

const (
	defaultPerPage = 20
	maxPerPage     = 200
)

// Params are the page/per_page query parameters accepted by list endpoints.
type Params struct {
	Page    int    `form:"page" json:"page"`
	PerPage int    `form:"per_page" json:"per_page"`
	Search  string `form:"search" json:"search"`
	Sort    string `form:"sort" json:"sort"`
}

// Pagination is the page metadata returned alongside list results.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// Page is a slice of items plus its pagination metadata.
type Page[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Normalize clamps page and per_page into a usable range.
func (p *Params) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
}

// Offset returns the SQL offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// New computes pagination metadata.
func New(page, perPage int, total int64) *Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(perPage)))
	}
	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// NewPage wraps items with metadata derived from params and total.
func NewPage[T any](items []T, p Params, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Pagination: New(p.Page, p.PerPage, total)}
}

// Map converts the items of a page while keeping its metadata.
func Map[T, U any](page *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, 0, len(page.Items))
	for _, it := range page.Items {
		out = append(out, fn(it))
	}
	return &Page[U]{Items: out, Pagination: page.Pagination}
}
