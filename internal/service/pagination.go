package service

import "github.com/noah-isme/academy-admin-api/internal/models"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// paginate slices an already filtered list. A negative page size returns everything;
// sizes above maxPageSize are capped.
func paginate[T any](items []T, page, size int) ([]T, *models.Pagination) {
	total := len(items)
	if page < 1 {
		page = 1
	}
	if size == 0 {
		size = defaultPageSize
	}
	if size < 0 {
		return items, &models.Pagination{Page: 1, PageSize: total, TotalCount: total}
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	start := total
	if page-1 <= total/size {
		start = min((page-1)*size, total)
	}
	end := start + min(size, total-start)
	return items[start:end], &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
