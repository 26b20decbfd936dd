package models

import "math"

// Pagination describes one page of an offset-paginated list
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// PageRequest is a normalized page/limit pair
type PageRequest struct {
	Page  int
	Limit int
}

const MaxPageLimit = 50

// MaxPage keeps Skip from overflowing at any allowed limit
const MaxPage = math.MaxInt / MaxPageLimit

// NewPageRequest applies the default limit to missing or invalid values and caps page and limit
func NewPageRequest(page, limit, defaultLimit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// Skip is the number of documents before this page
func (p PageRequest) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Result builds the pagination metadata for a total count
func (p PageRequest) Result(total int64) Pagination {
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}
