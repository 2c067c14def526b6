package models

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps the skip of the last page within int64 at MaxLimit.
	MaxPage = math.MaxInt64 / MaxLimit
)

// Page is a 1-indexed page request.
type Page struct {
	Number int64
	Limit  int64
}

// Skip is the number of documents before the page.
func (p Page) Skip() int64 {
	if p.Number < 1 || p.Limit < 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt64/p.Limit {
		return math.MaxInt64
	}
	return (p.Number - 1) * p.Limit
}

// Pagination is the metadata returned alongside a page of results.
type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalDocs  int64 `json:"totalDocs"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(p Page, total int64) Pagination {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Page: p.Number, Limit: p.Limit, TotalDocs: total, TotalPages: pages}
}

// TaskPage is one page of expanded tasks.
type TaskPage struct {
	Taches     []TaskView `json:"taches"`
	Pagination Pagination `json:"pagination"`
}
