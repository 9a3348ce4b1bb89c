package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aboadu/classtrack/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // pages are 1-based
)

// ClampPageParams normalizes page and pageSize to their allowed ranges.
// Invalid pages fall back to 1; pageSize is clamped to [1, MaxPageSize] so a
// caller can never request an unbounded result set.
func ClampPageParams(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	} else if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// CalculateOffsetLimit converts a 1-based page index to a SQL offset and limit.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	page, limit = ClampPageParams(page, size)
	offset = uint64((page - 1) * limit)
	return offset, limit
}

// NewPaginationInfo creates a standard PaginationInfo DTO. totalPages is
// ceil(totalItems/size), and never below 1 so that an empty result still
// renders as a single empty page.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	page, size = ClampPageParams(page, size)

	totalPages := 1
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams extracts and validates pagination parameters from the request
func ParsePaginationParams(c *gin.Context) (page, size int) {
	pageStr := c.DefaultQuery("page", strconv.Itoa(DefaultPage))
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = DefaultPage
	}

	sizeStr := c.DefaultQuery("pageSize", strconv.Itoa(DefaultPageSize))
	size, err = strconv.Atoi(sizeStr)
	if err != nil {
		size = DefaultPageSize
	}
	_, size = ClampPageParams(page, size)

	return page, size
}
