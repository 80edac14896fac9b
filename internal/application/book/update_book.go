package book

import (
	"context"
	"log/slog"

	"github.com/xiebiao/library/internal/domain/book"
)

// UpdateBookUseCase 图书修改(全量更新、部分更新、下架)
// 修改提交后删除详情缓存
type UpdateBookUseCase struct {
	bookService book.Service
	cache       book.Cache
	logger      *slog.Logger
}

// NewUpdateBookUseCase 创建图书修改用例
func NewUpdateBookUseCase(bookService book.Service, cache book.Cache, logger *slog.Logger) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, cache: cache, logger: logger}
}

// PatchInput 部分更新,nil表示未提供
type PatchInput struct {
	Title       *string
	Author      *string
	Description *string
	CopiesTotal *int
	CategoryID  *uint
}

// Replace 全量更新
func (uc *UpdateBookUseCase) Replace(ctx context.Context, id uint, in BookInput) (*BookResponse, error) {
	b, err := uc.bookService.UpdateBook(ctx, id, in.details())
	return uc.done(ctx, id, b, err)
}

// Patch 部分更新
func (uc *UpdateBookUseCase) Patch(ctx context.Context, id uint, in PatchInput) (*BookResponse, error) {
	b, err := uc.bookService.PartialUpdateBook(ctx, id, book.Patch{
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		CopiesTotal: in.CopiesTotal,
		CategoryID:  in.CategoryID,
	})
	return uc.done(ctx, id, b, err)
}

// Delete 下架,返回下架后的快照
func (uc *UpdateBookUseCase) Delete(ctx context.Context, id uint) (*BookResponse, error) {
	b, err := uc.bookService.DeleteBook(ctx, id)
	return uc.done(ctx, id, b, err)
}

func (uc *UpdateBookUseCase) done(ctx context.Context, id uint, b *book.Book, err error) (*BookResponse, error) {
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Delete(ctx, id); err != nil {
		uc.logger.WarnContext(ctx, "book cache invalidate failed", "book_id", id, "error", err)
	}

	resp := ToResponse(b)
	return &resp, nil
}
