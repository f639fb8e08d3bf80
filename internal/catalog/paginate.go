package catalog

// TotalPages is ceil(len(items)/pageSize). It is 0 for an empty list or a
// non-positive page size.
func TotalPages[T any](items []T, pageSize int) int {
	if pageSize <= 0 || len(items) == 0 {
		return 0
	}
	return (len(items) + pageSize - 1) / pageSize
}

// Paginate returns the 1-based page of items. Pages outside
// [1, TotalPages] yield an empty slice.
func Paginate[T any](items []T, pageSize, page int) []T {
	if page < 1 || page > TotalPages(items, pageSize) {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	return items[start:end:end]
}
