package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedNumbersToRanges(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int64
		want    []Range
	}{
		{
			name:    "single consecutive run",
			numbers: []int64{1, 2, 3, 4, 5, 6},
			want:    []Range{{1, 6}},
		},
		{
			name:    "gap splits ranges",
			numbers: []int64{1, 2, 3, 5, 6},
			want:    []Range{{1, 3}, {5, 6}},
		},
		{
			name:    "empty input",
			numbers: []int64{},
			want:    []Range{},
		},
		{
			name:    "isolated values",
			numbers: []int64{1, 3, 7},
			want:    []Range{{1, 1}, {3, 3}, {7, 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SortedNumbersToRanges(tt.numbers))
		})
	}
}
