package service

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// Pagination describes one page of a larger result set.
// PrevPage and NextPage are nil at the respective boundaries.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	PrevPage    *int  `json:"prevPage"`
	NextPage    *int  `json:"nextPage"`
	TotalPages  int   `json:"totalPages"`
	TotalDocs   int64 `json:"totalDocs"`
}

// paginate builds a page descriptor from normalized inputs.
func paginate(page, perPage int, total int64) Pagination {
	page = normalizePage(page)
	perPage = normalizePerPage(perPage, defaultPerPage)

	p := Pagination{
		CurrentPage: page,
		TotalPages:  calculateTotalPages(total, perPage),
		TotalDocs:   total,
	}

	if page > 1 {
		prev := page - 1
		p.PrevPage = &prev
	}
	if page < p.TotalPages {
		next := page + 1
		p.NextPage = &next
	}

	return p
}

// normalizePage clamps page numbers below 1.
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// normalizePerPage clamps non-positive and oversized page sizes,
// so the resulting query offset can never go negative.
func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	if perPage > maxPerPage {
		return maxPerPage
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
