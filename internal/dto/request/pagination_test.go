package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginatedRequestBounds(t *testing.T) {
	cases := []struct {
		in            PaginatedRequest
		limit, offset int
		currentPage   int
	}{
		{PaginatedRequest{Page: 1, PerPage: 10}, 10, 0, 1},
		{PaginatedRequest{Page: 3, PerPage: 20}, 20, 40, 3},
		{PaginatedRequest{Page: 0, PerPage: 0}, DefaultPerPage, 0, 1},
		{PaginatedRequest{Page: 2, PerPage: 500}, MaxPerPage, MaxPerPage, 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.limit, tc.in.Limit())
		assert.Equal(t, tc.offset, tc.in.Offset())
		assert.Equal(t, tc.currentPage, tc.in.CurrentPage())
	}
}
