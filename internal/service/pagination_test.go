package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginateBounds(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, 2, meta.PageSize)

	page, _ = paginate(items, 3, 2)
	assert.Equal(t, []int{5}, page)

	page, _ = paginate(items, 9, 2)
	assert.Empty(t, page)

	page, _ = paginate(items, -1, -1)
	assert.Len(t, page, 5)
}

func TestPaginateHugeValuesDoNotOverflow(t *testing.T) {
	items := []int{1, 2}

	assert.NotPanics(t, func() {
		page, meta := paginate(items, 2, math.MaxInt64)
		assert.Empty(t, page)
		assert.Equal(t, maxPageSize, meta.PageSize)
	})
	assert.NotPanics(t, func() {
		page, _ := paginate(items, math.MaxInt64, 50)
		assert.Empty(t, page)
	})
	assert.NotPanics(t, func() {
		page, _ := paginate(items, 1, math.MaxInt64)
		assert.Equal(t, items, page)
	})
}
