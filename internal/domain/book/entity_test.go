package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook(t *testing.T, total int) *Book {
	t.Helper()
	b, err := NewBook(1, Details{Title: "Dune", Author: "Frank Herbert", CopiesTotal: total})
	require.NoError(t, err)
	return b
}

// assertCopies 副本数不变式
func assertCopies(t *testing.T, b *Book, total, available int) {
	t.Helper()
	assert.Equal(t, total, b.CopiesTotal)
	assert.Equal(t, available, b.CopiesAvailable)
	assert.Equal(t, total-available, b.CopiesBorrowed())
	assert.GreaterOrEqual(t, b.CopiesAvailable, 0)
	assert.LessOrEqual(t, b.CopiesAvailable, b.CopiesTotal)
}

func TestNewBook(t *testing.T) {
	t.Run("新书全部可借", func(t *testing.T) {
		b := newTestBook(t, 5)
		assertCopies(t, b, 5, 5)
		assert.True(t, b.IsActive())
	})

	tests := []struct {
		name    string
		details Details
		wantErr error
	}{
		{"书名为空", Details{Title: "", CopiesTotal: 10}, ErrEmptyTitle},
		{"书名全是空白", Details{Title: "  ", CopiesTotal: 10}, ErrEmptyTitle},
		{"总数为0", Details{Title: "Dune", CopiesTotal: 0}, ErrInvalidCopiesTotal},
		{"总数为负", Details{Title: "Dune", CopiesTotal: -1}, ErrInvalidCopiesTotal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBook(1, tt.details)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBook_BorrowAndReturn(t *testing.T) {
	b := newTestBook(t, 2)

	require.NoError(t, b.BorrowOneCopy())
	require.NoError(t, b.BorrowOneCopy())
	assertCopies(t, b, 2, 0)

	assert.ErrorIs(t, b.BorrowOneCopy(), ErrNoCopiesAvailable)
	assertCopies(t, b, 2, 0)

	assert.True(t, b.ReturnOneCopy())
	assert.True(t, b.ReturnOneCopy())
	assert.False(t, b.ReturnOneCopy(), "可借数已满时不再增加")
	assertCopies(t, b, 2, 2)

	b.Deactivate()
	assert.ErrorIs(t, b.BorrowOneCopy(), ErrNotBorrowable)
}

func TestBook_Replace(t *testing.T) {
	t.Run("按已借出数重算可借数", func(t *testing.T) {
		b := newTestBook(t, 5)
		require.NoError(t, b.BorrowOneCopy())
		require.NoError(t, b.BorrowOneCopy())

		require.NoError(t, b.Replace(Details{Title: "Dune Messiah", CopiesTotal: 3}))
		assertCopies(t, b, 3, 1)
		assert.Equal(t, "Dune Messiah", b.Title)
		assert.Equal(t, uint(1), b.CategoryID, "CategoryID为0时保留原分类")
	})

	t.Run("总数小于已借出数", func(t *testing.T) {
		b := newTestBook(t, 5)
		for i := 0; i < 3; i++ {
			require.NoError(t, b.BorrowOneCopy())
		}

		err := b.Replace(Details{Title: "Dune", CopiesTotal: 2})
		assert.ErrorIs(t, err, ErrTotalBelowBorrowed)
		assertCopies(t, b, 5, 2)
	})

	t.Run("已下架", func(t *testing.T) {
		b := newTestBook(t, 1)
		b.Deactivate()
		assert.ErrorIs(t, b.Replace(Details{Title: "X", CopiesTotal: 1}), ErrBookInactive)
	})
}

func TestBook_ApplyPatch(t *testing.T) {
	title := "Children of Dune"
	blank := "  "
	total := 4
	zero := 0
	category := uint(9)

	t.Run("只应用提供的字段", func(t *testing.T) {
		b := newTestBook(t, 2)
		require.NoError(t, b.BorrowOneCopy())

		require.NoError(t, b.ApplyPatch(Patch{Title: &title, Author: &blank, CopiesTotal: &total, CategoryID: &category}))
		assert.Equal(t, "Children of Dune", b.Title)
		assert.Equal(t, "Frank Herbert", b.Author, "空白字段保留原值")
		assert.Equal(t, uint(9), b.CategoryID)
		assertCopies(t, b, 4, 3)
	})

	t.Run("总数为0", func(t *testing.T) {
		b := newTestBook(t, 2)
		assert.ErrorIs(t, b.ApplyPatch(Patch{CopiesTotal: &zero}), ErrInvalidCopiesTotal)
	})

	t.Run("已下架", func(t *testing.T) {
		b := newTestBook(t, 2)
		b.Deactivate()
		assert.ErrorIs(t, b.ApplyPatch(Patch{Title: &title}), ErrBookInactive)
	})
}
