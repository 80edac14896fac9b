package category_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/domaintest"
	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func setup(t *testing.T) (category.Service, *domaintest.Store) {
	t.Helper()
	store := domaintest.NewStore()
	return category.NewService(store.Categories(), store.TxManager()), store
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("创建成功并去除首尾空白", func(t *testing.T) {
		svc, _ := setup(t)
		c, err := svc.Create(ctx, "  Fiction ")
		require.NoError(t, err)
		assert.NotZero(t, c.ID)
		assert.Equal(t, "Fiction", c.Name)
	})

	t.Run("空名称", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Create(ctx, "   ")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.ErrorIs(t, err, category.ErrEmptyName)
	})

	t.Run("名称大小写不敏感重复", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Create(ctx, "Fiction")
		require.NoError(t, err)

		_, err = svc.Create(ctx, "fiction")
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "category name is already in use: fiction", apperrors.GetAppError(err).Message)
		t.Logf("✓ 重复名称被拒绝: %v", err)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("修改名称", func(t *testing.T) {
		svc, _ := setup(t)
		c, _ := svc.Create(ctx, "Fiction")

		updated, err := svc.Update(ctx, c.ID, "Novels")
		require.NoError(t, err)
		assert.Equal(t, "Novels", updated.Name)

		got, err := svc.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Novels", got.Name)
	})

	t.Run("只改大小写不算冲突", func(t *testing.T) {
		svc, _ := setup(t)
		c, _ := svc.Create(ctx, "fiction")

		updated, err := svc.Update(ctx, c.ID, "Fiction")
		require.NoError(t, err)
		assert.Equal(t, "Fiction", updated.Name)
	})

	t.Run("与其他分类冲突", func(t *testing.T) {
		svc, _ := setup(t)
		_, _ = svc.Create(ctx, "Fiction")
		c, _ := svc.Create(ctx, "History")

		_, err := svc.Update(ctx, c.ID, "FICTION")
		assert.True(t, apperrors.IsConflict(err))

		got, _ := svc.Get(ctx, c.ID)
		assert.Equal(t, "History", got.Name, "冲突时原名称不变")
	})

	t.Run("分类不存在", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Update(ctx, 999, "Any")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("没有图书引用时删除成功", func(t *testing.T) {
		svc, _ := setup(t)
		c, _ := svc.Create(ctx, "Fiction")

		deleted, err := svc.Delete(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Fiction", deleted.Name)

		_, err = svc.Get(ctx, c.ID)
		assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	})

	t.Run("有图书引用时拒绝删除", func(t *testing.T) {
		svc, store := setup(t)
		c, _ := svc.Create(ctx, "Fiction")
		b, err := book.NewBook(c.ID, book.Details{Title: "Dune", CopiesTotal: 1})
		require.NoError(t, err)
		require.NoError(t, store.Books().Create(ctx, b))

		_, err = svc.Delete(ctx, c.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.ErrorIs(t, err, category.ErrCategoryInUse)

		_, err = svc.Get(ctx, c.ID)
		assert.NoError(t, err, "分类应保持不变")
	})

	t.Run("已下架的图书同样算引用", func(t *testing.T) {
		svc, store := setup(t)
		c, _ := svc.Create(ctx, "Fiction")
		b, _ := book.NewBook(c.ID, book.Details{Title: "Dune", CopiesTotal: 1})
		b.Deactivate()
		require.NoError(t, store.Books().Create(ctx, b))

		_, err := svc.Delete(ctx, c.ID)
		assert.ErrorIs(t, err, category.ErrCategoryInUse)
	})

	t.Run("分类不存在", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Delete(ctx, 42)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("空结果不是错误", func(t *testing.T) {
		svc, _ := setup(t)
		page, err := svc.List(ctx, shared.PageQuery{})
		require.NoError(t, err)
		assert.Empty(t, page.Content)
		assert.Equal(t, int64(0), page.TotalElements)
		assert.True(t, page.LastPage)
	})

	t.Run("按名称倒序分页", func(t *testing.T) {
		svc, _ := setup(t)
		for _, name := range []string{"Art", "Biography", "Crime"} {
			_, err := svc.Create(ctx, name)
			require.NoError(t, err)
		}

		page, err := svc.List(ctx, shared.PageQuery{PageNumber: 0, PageSize: 2, SortBy: "categoryName", SortDir: "DESC"})
		require.NoError(t, err)
		require.Len(t, page.Content, 2)
		assert.Equal(t, "Crime", page.Content[0].Name)
		assert.Equal(t, "Biography", page.Content[1].Name)
		assert.Equal(t, int64(3), page.TotalElements)
		assert.Equal(t, 2, page.TotalPages)
		assert.False(t, page.LastPage)
	})

	t.Run("未知排序字段", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.List(ctx, shared.PageQuery{SortBy: "createdAt"})
		assert.True(t, apperrors.IsValidation(err))
	})
}
