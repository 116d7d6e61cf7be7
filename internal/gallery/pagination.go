package gallery

import "fmt"

// PageMeta mirrors the pagination envelope of the storage service.
type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Paginated[T any] struct {
	Meta PageMeta `json:"meta"`
	Data []T      `json:"data"`
}

// PaginationLinks drives prev/next controls in listing widgets.
type PaginationLinks struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}

// NewPaginationLinks builds the links for a listing page. Extra query
// parameters (keyword filters) are appended verbatim.
func NewPaginationLinks(meta PageMeta, basePath, extraQuery string) PaginationLinks {
	links := PaginationLinks{
		Page:       meta.Page,
		TotalPages: meta.TotalPages,
	}
	if meta.Page > 1 {
		links.HasPrev = true
		links.PrevURL = fmt.Sprintf("%s?page=%d&per_page=%d%s", basePath, meta.Page-1, meta.PerPage, extraQuery)
	}
	if meta.Page < meta.TotalPages {
		links.HasNext = true
		links.NextURL = fmt.Sprintf("%s?page=%d&per_page=%d%s", basePath, meta.Page+1, meta.PerPage, extraQuery)
	}
	return links
}
