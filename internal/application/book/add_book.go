package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// AddBookUseCase 向分类添加图书
type AddBookUseCase struct {
	bookService book.Service
}

// NewAddBookUseCase 创建添加图书用例
func NewAddBookUseCase(bookService book.Service) *AddBookUseCase {
	return &AddBookUseCase{bookService: bookService}
}

// Execute 添加图书
// 分类存在性、书名和副本数校验由领域服务负责
func (uc *AddBookUseCase) Execute(ctx context.Context, categoryID uint, in BookInput) (*BookResponse, error) {
	in.CategoryID = 0
	b, err := uc.bookService.AddBook(ctx, categoryID, in.details())
	if err != nil {
		return nil, err
	}
	resp := ToResponse(b)
	return &resp, nil
}
