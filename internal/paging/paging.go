// Package paging turns an ordered, filtered result set into one page.
package paging

import (
	"context"
	"math"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// Request is the paging part of every list filter.
type Request struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// NewRequest returns the defaults applied when a client sends nothing.
func NewRequest() Request {
	return Request{Page: DefaultPage, Limit: DefaultLimit}
}

// Paging lets filters that embed Request satisfy Filter.
func (r Request) Paging() Request {
	return r
}

// Window returns the effective page and limit: pages start at 1 and a
// limit of zero or less is treated as 1.
func (r Request) Window() (page, limit int) {
	page, limit = r.Page, r.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 1
	}
	return page, limit
}

// Offset is the number of records skipped before the page starts. It
// saturates at math.MaxInt instead of overflowing.
func (r Request) Offset() int {
	page, limit := r.Window()
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// Filter is implemented by every resource list filter.
type Filter interface {
	Paging() Request
}

// Source is a filtered and ordered result set that can be windowed and
// counted independently.
type Source[T any] interface {
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
	Count(ctx context.Context) (int, error)
}

// Page is the response envelope for list endpoints.
type Page[T any] struct {
	Items       []T    `json:"items"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	OrderedBy   string `json:"orderedBy"`
}

// TotalPages returns ceil(total/limit), or 1 when there is nothing to page.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		limit = 1
	}
	if total == 0 {
		return 1
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

// Paginate fetches the requested window from src and counts the whole set.
// A page past the end yields no items but the same TotalPages.
func Paginate[T any](ctx context.Context, src Source[T], req Request, orderedBy string) (Page[T], error) {
	page, limit := req.Window()

	items, err := src.Fetch(ctx, req.Offset(), limit)
	if err != nil {
		return Page[T]{}, err
	}
	total, err := src.Count(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	if items == nil {
		items = []T{}
	}

	return Page[T]{
		Items:       items,
		CurrentPage: page,
		TotalPages:  TotalPages(total, limit),
		OrderedBy:   orderedBy,
	}, nil
}
