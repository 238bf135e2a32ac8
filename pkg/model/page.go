package model

// Page is one page of a paginated listing.
type Page[T any] struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalResults int64 `json:"totalResults"`
	Results      []T   `json:"results"`
}

// NewPage builds a page for the requested page number. CurrentPage echoes
// pageNo rather than being derived from the results.
func NewPage[T any](results []T, pageNo, pageSize int, totalResults int64) *Page[T] {
	if results == nil {
		results = []T{}
	}
	return &Page[T]{
		CurrentPage:  pageNo,
		TotalPages:   TotalPages(totalResults, pageSize),
		TotalResults: totalResults,
		Results:      results,
	}
}

// TotalPages returns ceil(totalResults / pageSize).
func TotalPages(totalResults int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	pages := totalResults / size
	if totalResults%size != 0 {
		pages++
	}
	return int(pages)
}
