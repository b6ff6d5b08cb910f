package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, size    int
		offset, limit int
	}{
		{1, 20, 0, 20},
		{3, 10, 20, 10},
		{0, 0, 0, DefaultPageSize},
		{2, 500, MaxPageSize, MaxPageSize},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset)
		assert.Equal(t, tt.limit, limit)
	}
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, ParseIntDefault("5", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 1, ParseIntDefault("x", 1))
}
