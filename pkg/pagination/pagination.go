package pagination

import (
	"net/url"
	"strconv"

	"github.com/adityaanikam/AI-agent-project/pkg/query"
)

// PageRequest selects one page of a listing and its order.
type PageRequest struct {
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Sort     []query.SortField `json:"sort,omitempty"`
}

// Normalize clamps the request into the bounds of cfg. Page is at least 1,
// and a missing page size takes the configured default.
func (r *PageRequest) Normalize(cfg Config) {
	r.Page = max(r.Page, 1)
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	r.PageSize = min(r.PageSize, cfg.MaxPageSize)
}

// Offset is the number of rows preceding the requested page.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageRequestFromQuery reads page, page_size (or limit), and sort from
// values and normalizes the result. Malformed numbers fall back to defaults.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	size := values.Get("page_size")
	if size == "" {
		size = values.Get("limit")
	}

	req := PageRequest{
		Page:     atoi(values.Get("page")),
		PageSize: atoi(size),
		Sort:     query.ParseSortFields(values.Get("sort")),
	}
	req.Normalize(cfg)
	return req
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// PageResult is one page of items with the totals needed to page further.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult wraps data, reporting at least one page and never a nil Data.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	pages := 1
	if pageSize > 0 && total > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
	}
}
