package handler

// pageMeta describes the position of a page inside the full result set.
type pageMeta struct {
	Total           int64 `json:"total"`
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// paginatedResponse is the envelope for all list endpoints.
type paginatedResponse struct {
	Items any      `json:"items"`
	Meta  pageMeta `json:"meta"`
}

func paginate(items any, total int64, page, limit int) paginatedResponse {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return paginatedResponse{
		Items: items,
		Meta: pageMeta{
			Total:           total,
			Page:            page,
			Limit:           limit,
			TotalPages:      totalPages,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
	}
}

// pageParams normalizes page/limit query values.
func pageParams(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
