package dto

import "strconv"

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination normalizes raw page/page_size query values.
func ParsePagination(pageRaw, pageSizeRaw string) (page, pageSize int) {
	page, _ = strconv.Atoi(pageRaw)
	pageSize, _ = strconv.Atoi(pageSizeRaw)

	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
