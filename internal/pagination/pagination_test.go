package pagination

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1))
	assert.Equal(t, 20, Offset(2))
	assert.Equal(t, 180, Offset(10))

	// Non-positive pages clamp to the first page.
	assert.Equal(t, 0, Offset(0))
	assert.Equal(t, 0, Offset(-3))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0))
	assert.Equal(t, 1, TotalPages(1))
	assert.Equal(t, 1, TotalPages(20))
	assert.Equal(t, 2, TotalPages(21))
	assert.Equal(t, 5, TotalPages(100))
}

func TestNewPage_Empty(t *testing.T) {
	page := NewPage[string](nil, 0, 1)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.NotNil(t, page.Items)

	data, err := json.Marshal(page)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0,"page":1,"totalPages":0}`, string(data))
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, 43, 2)
	assert.Equal(t, 43, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
}
