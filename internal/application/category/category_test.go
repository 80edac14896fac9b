package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/domaintest"
	"github.com/xiebiao/library/internal/domain/shared"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

func TestCategoryUseCases(t *testing.T) {
	ctx := context.Background()
	store := domaintest.NewStore()
	svc := category.NewService(store.Categories(), store.TxManager())
	pagination := config.PaginationConfig{DefaultPageSize: 2, MaxPageSize: 5}

	create := NewCreateCategoryUseCase(svc)
	for _, name := range []string{"Fiction", "History", "Science"} {
		_, err := create.Execute(ctx, name)
		require.NoError(t, err)
	}

	t.Run("列表使用配置的默认页大小", func(t *testing.T) {
		page, err := NewListCategoriesUseCase(svc, pagination).Execute(ctx, shared.PageQuery{})
		require.NoError(t, err)
		assert.Equal(t, 2, page.PageSize)
		assert.Len(t, page.Content, 2)
		assert.Equal(t, int64(3), page.TotalElements)
		assert.Equal(t, 2, page.TotalPages)
		assert.False(t, page.LastPage)
		assert.Equal(t, "Fiction", page.Content[0].Name)
	})

	t.Run("页大小超过上限被截断", func(t *testing.T) {
		page, err := NewListCategoriesUseCase(svc, pagination).Execute(ctx, shared.PageQuery{PageSize: 50})
		require.NoError(t, err)
		assert.Equal(t, 5, page.PageSize)
		assert.True(t, page.LastPage)
	})

	t.Run("修改与删除", func(t *testing.T) {
		created, err := create.Execute(ctx, "Poetry")
		require.NoError(t, err)

		updated, err := NewUpdateCategoryUseCase(svc).Execute(ctx, created.ID, "Modern Poetry")
		require.NoError(t, err)
		assert.Equal(t, "Modern Poetry", updated.Name)

		deleted, err := NewDeleteCategoryUseCase(svc).Execute(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Modern Poetry", deleted.Name)
	})

	t.Run("重名返回冲突", func(t *testing.T) {
		_, err := create.Execute(ctx, "fiction")
		require.Error(t, err)
		t.Logf("✓ %v", err)
	})
}
