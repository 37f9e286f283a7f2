package types

// PageRequest is a 1-based page window
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest clamps page and perPage into range, applying def when perPage is unset
func NewPageRequest(page, perPage, def, max int) PageRequest {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = def
	}
	if perPage > max {
		perPage = max
	}
	return PageRequest{Page: page, PerPage: perPage}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Pagination is the metadata returned next to every paginated list
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// NewPagination derives page counts from the total row count
func NewPagination(req PageRequest, total int64) Pagination {
	pages := 0
	if req.PerPage > 0 {
		pages = int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	}
	return Pagination{
		Page:    req.Page,
		PerPage: req.PerPage,
		Total:   total,
		Pages:   pages,
		HasNext: req.Page < pages,
		HasPrev: req.Page > 1,
	}
}
