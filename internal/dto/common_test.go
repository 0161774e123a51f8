package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationMath(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		limit      int
		total      int64
		totalPages int64
		startIndex int64
		endIndex   int64
		hasNext    bool
		hasPrev    bool
	}{
		{"first of many", 1, 10, 25, 3, 1, 10, true, false},
		{"middle page", 2, 10, 25, 3, 11, 20, true, true},
		{"last partial page", 3, 10, 25, 3, 21, 25, false, true},
		{"exact fit", 2, 5, 10, 2, 6, 10, false, true},
		{"empty result", 1, 10, 0, 0, 1, 0, false, false},
		{"single item", 1, 10, 1, 1, 1, 1, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := NewPaginatedResponse(nil, tc.page, tc.limit, tc.total, nil)
			state := resp.PaginationState
			assert.Equal(t, tc.total, state.TotalData)
			assert.Equal(t, tc.limit, state.DataPerPage)
			assert.Equal(t, tc.page, state.CurrentPage)
			assert.Equal(t, tc.totalPages, state.TotalPages)
			assert.Equal(t, tc.startIndex, state.StartIndex)
			assert.Equal(t, tc.endIndex, state.EndIndex)
			assert.Equal(t, tc.hasNext, state.HasNextPage)
			assert.Equal(t, tc.hasPrev, state.HasPrevPage)
		})
	}
}

func TestAdditionalInfoPassthrough(t *testing.T) {
	info := map[string]interface{}{"category": "home", "order": "new"}
	resp := NewPaginatedResponse([]string{"a"}, 1, 10, 1, info)
	assert.Equal(t, info, resp.AdditionalInfo)
}
