package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, size         int
		wantOffset, wantLn int
	}{
		{page: 1, size: 10, wantOffset: 0, wantLn: 10},
		{page: 3, size: 20, wantOffset: 40, wantLn: 20},
		{page: 0, size: 5, wantOffset: 0, wantLn: 5},
		{page: 2, size: 0, wantOffset: 10, wantLn: 10},
		{page: 2, size: 500, wantOffset: 10, wantLn: 10},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, offset)
		assert.Equal(t, tt.wantLn, limit)
	}
}

func TestWindow(t *testing.T) {
	t.Parallel()

	from, to := Window(25, 3, 10)
	assert.Equal(t, 20, from)
	assert.Equal(t, 25, to)

	from, to = Window(5, 4, 10)
	assert.Equal(t, 5, from)
	assert.Equal(t, 5, to)
}
