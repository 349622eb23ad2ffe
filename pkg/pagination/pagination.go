// Package pagination slices zero-based pages out of in-memory collections.
package pagination

// Params holds zero-based pagination parameters.
type Params struct {
	PageIndex int `json:"page_index"`
	PageSize  int `json:"page_size"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{
		PageIndex: 0,
		PageSize:  12,
	}
}

// PageCount returns ceil(total / pageSize), or 0 for a non-positive page size.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total-1)/pageSize + 1
}

// Window returns the half-open range [start, end) of items for the given page.
// An out-of-range page yields an empty range (start == end) rather than
// being clamped; callers decide whether to move the page index.
func Window(total, pageIndex, pageSize int) (start, end int) {
	if pageSize <= 0 || pageIndex < 0 {
		return 0, 0
	}
	if total <= 0 || pageIndex >= PageCount(total, pageSize) {
		return max(total, 0), max(total, 0)
	}
	start = pageIndex * pageSize
	end = min(start+pageSize, total)
	return start, end
}

// Clamp pulls pageIndex back into [0, PageCount-1]. With no results the only
// valid index is 0.
func Clamp(pageIndex, total, pageSize int) int {
	last := PageCount(total, pageSize) - 1
	if last < 0 {
		return 0
	}
	if pageIndex > last {
		return last
	}
	if pageIndex < 0 {
		return 0
	}
	return pageIndex
}

// Page is a generic page of results.
type Page[T any] struct {
	Items      []T  `json:"items"`
	TotalCount int  `json:"total_count"`
	PageIndex  int  `json:"page_index"`
	PageSize   int  `json:"page_size"`
	PageCount  int  `json:"page_count"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Slice cuts the requested page out of items and returns it with derived
// counts. The returned Items never aliases items.
func Slice[T any](items []T, pageIndex, pageSize int) Page[T] {
	total := len(items)
	start, end := Window(total, pageIndex, pageSize)
	out := make([]T, end-start)
	copy(out, items[start:end])

	pages := PageCount(total, pageSize)
	return Page[T]{
		Items:      out,
		TotalCount: total,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		PageCount:  pages,
		HasNext:    pageIndex >= 0 && pageIndex < pages-1,
		HasPrev:    pageIndex > 0 && pages > 0,
	}
}
