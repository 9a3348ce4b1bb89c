package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPageParams(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{"valid", 3, 25, 3, 25},
		{"zero page falls back", 0, 25, 1, 25},
		{"negative page falls back", -4, 25, 1, 25},
		{"zero size uses default", 2, 0, 2, DefaultPageSize},
		{"negative size uses default", 2, -1, 2, DefaultPageSize},
		{"oversized clamps to max", 1, 5000, 1, MaxPageSize},
		{"max boundary passes through", 1, MaxPageSize, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := ClampPageParams(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(1, 10)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, 10, limit)

	offset, limit = CalculateOffsetLimit(4, 25)
	assert.Equal(t, uint64(75), offset)
	assert.Equal(t, 25, limit)
}

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int64
		page       int
		size       int
		wantPages  int
	}{
		{"exact multiple", 40, 1, 10, 4},
		{"partial last page", 41, 1, 10, 5},
		{"empty result still one page", 0, 1, 10, 1},
		{"single item", 1, 1, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPaginationInfo(tt.totalItems, tt.page, tt.size)
			assert.Equal(t, tt.wantPages, info.TotalPages)
			assert.Equal(t, tt.totalItems, info.TotalItems)
		})
	}
}
