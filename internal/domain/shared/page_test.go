package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

var sortable = []string{"bookId", "title"}

func TestPageQuery_Normalize(t *testing.T) {
	t.Run("填充默认值", func(t *testing.T) {
		q, err := PageQuery{}.Normalize(sortable)
		require.NoError(t, err)
		assert.Equal(t, 10, q.PageSize)
		assert.Equal(t, "bookId", q.SortBy)
		assert.Equal(t, SortAsc, q.SortDir)
	})

	t.Run("方向大小写不敏感", func(t *testing.T) {
		q, err := PageQuery{SortDir: "DESC"}.Normalize(sortable)
		require.NoError(t, err)
		assert.Equal(t, SortDesc, q.SortDir)
	})

	t.Run("超过最大页大小被截断", func(t *testing.T) {
		q, err := PageQuery{PageSize: 500}.Normalize(sortable)
		require.NoError(t, err)
		assert.Equal(t, 100, q.PageSize)
	})

	t.Run("非法方向", func(t *testing.T) {
		_, err := PageQuery{SortDir: "up"}.Normalize(sortable)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("未知排序字段", func(t *testing.T) {
		_, err := PageQuery{SortBy: "price"}.Normalize(sortable)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "unknown sort field: price", apperrors.GetAppError(err).Message)
	})

	t.Run("负页码", func(t *testing.T) {
		_, err := PageQuery{PageNumber: -1}.Normalize(sortable)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("页码过大", func(t *testing.T) {
		_, err := PageQuery{PageNumber: math.MaxInt, PageSize: 10}.Normalize(sortable)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "page number is too large", apperrors.GetAppError(err).Message)

		q, err := PageQuery{PageNumber: math.MaxInt / 10, PageSize: 10}.Normalize(sortable)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, q.Offset(), 0)
	})
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		total      int64
		wantPages  int
		wantLast   bool
	}{
		{"空结果", 0, 10, 0, 0, true},
		{"刚好一页", 0, 10, 10, 1, true},
		{"多页第一页", 0, 10, 25, 3, false},
		{"多页最后一页", 2, 10, 25, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage([]int(nil), PageQuery{PageNumber: tt.page, PageSize: tt.size}, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantLast, p.LastPage)
			assert.NotNil(t, p.Content)
		})
	}
}

func TestMapPage(t *testing.T) {
	p := NewPage([]int{1, 2}, PageQuery{PageSize: 2}, 3)
	mapped := MapPage(p, func(v int) string { return string(rune('a' + v)) })

	assert.Equal(t, []string{"b", "c"}, mapped.Content)
	assert.Equal(t, 2, mapped.TotalPages)
	assert.False(t, mapped.LastPage)
}
