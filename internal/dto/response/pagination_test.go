package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a", "b"}, 2, 2, 5)

	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrevious)

	last := NewPaginatedResponse([]string{"e"}, 3, 2, 5)
	assert.False(t, last.Pagination.HasNext)
}

func TestEmptyPageEncodesAsArray(t *testing.T) {
	raw, err := json.Marshal(NewPaginatedResponse[GenreResponse](nil, 1, 10, 0))
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"data":[]`)
	assert.Contains(t, string(raw), `"has_previous":false`)
}
