package application

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/user-management-service/internal/domain/repository"
)

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		content   []int
		total     int64
		page      int
		size      int
		wantPages int
		wantFirst bool
		wantLast  bool
		wantEmpty bool
	}{
		{name: "empty store", content: nil, total: 0, page: 0, size: 10, wantPages: 0, wantFirst: true, wantLast: true, wantEmpty: true},
		{name: "single partial page", content: []int{1, 2, 3}, total: 3, page: 0, size: 10, wantPages: 1, wantFirst: true, wantLast: true},
		{name: "first of several", content: []int{1, 2}, total: 5, page: 0, size: 2, wantPages: 3, wantFirst: true},
		{name: "middle page", content: []int{3, 4}, total: 5, page: 1, size: 2, wantPages: 3},
		{name: "last partial page", content: []int{5}, total: 5, page: 2, size: 2, wantPages: 3, wantLast: true},
		{name: "exact multiple", content: []int{3, 4}, total: 4, page: 1, size: 2, wantPages: 2, wantLast: true},
		{name: "past the end", content: nil, total: 4, page: 7, size: 2, wantPages: 2, wantLast: true, wantEmpty: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageResult(tt.content, tt.total, repository.PageRequest{Page: tt.page, Size: tt.size})
			assert.Equal(t, tt.wantPages, got.TotalPages)
			assert.Equal(t, tt.wantFirst, got.First)
			assert.Equal(t, tt.wantLast, got.Last)
			assert.Equal(t, tt.wantEmpty, got.Empty)
			assert.Equal(t, tt.total, got.TotalElements)
			assert.Equal(t, tt.page, got.PageNumber)
			assert.Equal(t, tt.size, got.PageSize)
			assert.NotNil(t, got.Content)
		})
	}
}

func TestMapPageKeepsMetadata(t *testing.T) {
	in := NewPageResult([]int{1, 2}, 5, repository.PageRequest{Page: 0, Size: 2})
	out := MapPage(in, strconv.Itoa)

	assert.Equal(t, []string{"1", "2"}, out.Content)
	assert.Equal(t, in.TotalPages, out.TotalPages)
	assert.Equal(t, in.TotalElements, out.TotalElements)
	assert.Equal(t, in.First, out.First)
	assert.Equal(t, in.Last, out.Last)
}
