// Package pagination implements the uniform list envelope used by every
// paginated endpoint: fixed page size 20, 1-based pages.
package pagination

// PageSize is fixed across all list endpoints.
const PageSize = 20

// Page is the response envelope for paginated lists.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// Normalize clamps non-positive page numbers to the first page.
func Normalize(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset is the row offset for a 1-based page number.
func Offset(page int) int {
	return (Normalize(page) - 1) * PageSize
}

// TotalPages is ceil(total/PageSize); zero when the collection is empty.
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// NewPage assembles the envelope. Items is never nil so empty pages encode
// as [] rather than null.
func NewPage[T any](items []T, total, page int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       Normalize(page),
		TotalPages: TotalPages(total),
	}
}
