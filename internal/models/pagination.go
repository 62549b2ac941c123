package models

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest is a 1-based page with a bounded limit.
type PageRequest struct {
	Page  int
	Limit int
}

func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	Total       int  `json:"total"`
	HasMore     bool `json:"hasMore"`
}

// NewPagination computes hasMore as skip + returned < total.
func NewPagination(req PageRequest, returned, total int) Pagination {
	totalPages := 0
	if req.Limit > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}
	return Pagination{
		CurrentPage: req.Page,
		TotalPages:  totalPages,
		Total:       total,
		HasMore:     req.Offset()+returned < total,
	}
}

type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

func NewPage[T any](req PageRequest, items []T, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Pagination: NewPagination(req, len(items), total)}
}
