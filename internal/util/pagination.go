package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate turns a 1-based page and a page size into an offset and limit.
// Out of range sizes fall back to DefaultPageSize.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

// Window is Calculate clamped to a slice of n elements, ready for s[from:to].
func Window(n, page, size int) (from, to int) {
	offset, limit := Calculate(page, size)
	from = min(offset, n)
	to = min(from+limit, n)
	return from, to
}
