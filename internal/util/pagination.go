package util

const DefaultPageSize = 20

// Calculate clamps page/size query input and returns the offset/limit pair.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}

// ClampLimit bounds a list limit to 1..100 with a default for zero input.
func ClampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > 100 {
		return 100
	}
	return limit
}
