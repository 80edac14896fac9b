package domaintest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/shared"
)

// TestTxManager_RollbackKeepsOutsideWrites 事务回滚不会抹掉并发的事务外写入
func TestTxManager_RollbackKeepsOutsideWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Categories()

	inside := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- store.TxManager().Transaction(ctx, func(txCtx context.Context) error {
			_ = repo.Create(txCtx, category.NewCategory("Drafts"))
			close(inside)
			<-release
			return errors.New("boom")
		})
	}()
	<-inside

	created := make(chan error, 1)
	go func() {
		created <- repo.Create(ctx, category.NewCategory("Poetry"))
	}()

	select {
	case <-created:
		t.Fatal("事务外写入应等待进行中的事务结束")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.Error(t, <-txDone)
	require.NoError(t, <-created)

	items, total, err := repo.List(ctx, shared.PageQuery{PageSize: 10, SortBy: "categoryId", SortDir: shared.SortAsc})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, "Poetry", items[0].Name)
	t.Logf("✓ 回滚只撤销事务内的写入")
}

// TestTxManager_SharedLock 同一Store的多个TxManager互斥,嵌套事务加入外层
func TestTxManager_SharedLock(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	outer, inner := store.TxManager(), store.TxManager()

	t.Run("嵌套事务加入外层", func(t *testing.T) {
		err := outer.Transaction(ctx, func(txCtx context.Context) error {
			return inner.Transaction(txCtx, func(ctx context.Context) error {
				return store.Categories().Create(ctx, category.NewCategory("Nested"))
			})
		})
		require.NoError(t, err)
	})

	t.Run("外层回滚撤销嵌套写入", func(t *testing.T) {
		err := outer.Transaction(ctx, func(txCtx context.Context) error {
			if err := inner.Transaction(txCtx, func(ctx context.Context) error {
				return store.Categories().Create(ctx, category.NewCategory("Gone"))
			}); err != nil {
				return err
			}
			return errors.New("boom")
		})
		require.Error(t, err)

		_, total, err := store.Categories().List(ctx, shared.PageQuery{PageSize: 10, SortBy: "categoryId", SortDir: shared.SortAsc})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})
}
