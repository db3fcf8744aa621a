// Package pagination computes page windows and the metadata block returned
// on collection endpoints.
package pagination

const (
	DefaultPage    = 1
	DefaultPerPage = 25
)

// Meta is rendered under meta.pagination on list responses.
type Meta struct {
	PerPage      int   `json:"per_page"`
	TotalPages   int   `json:"total_pages"`
	TotalObjects int64 `json:"total_objects"`
}

// Page normalizes a requested page/per_page pair. Zero or negative values
// fall back to the defaults; perPageDefault <= 0 falls back to DefaultPerPage.
func Page(page, perPage, perPageDefault int) (int, int) {
	if perPageDefault <= 0 {
		perPageDefault = DefaultPerPage
	}
	if perPage <= 0 {
		perPage = perPageDefault
	}
	if page <= 0 {
		page = DefaultPage
	}
	return page, perPage
}

// Offset returns the SQL offset for a normalized page.
func Offset(page, perPage int) int {
	return (page - 1) * perPage
}

// MetaFor computes the metadata for a collection of count objects.
func MetaFor(count int64, perPage int) Meta {
	totalPages := int(count / int64(perPage))
	if count%int64(perPage) != 0 {
		totalPages++
	}
	return Meta{
		PerPage:      perPage,
		TotalPages:   totalPages,
		TotalObjects: count,
	}
}
