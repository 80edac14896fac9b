package book

import (
	"context"
	"log/slog"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/shared"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

// GetBookUseCase 图书详情(Cache-Aside)
//  1. 先查Redis
//  2. 未命中查数据库并回填
//  3. 缓存异常只记录日志,降级为直接查数据库
type GetBookUseCase struct {
	bookService book.Service
	cache       book.Cache
	logger      *slog.Logger
}

// NewGetBookUseCase 创建图书详情用例
func NewGetBookUseCase(bookService book.Service, cache book.Cache, logger *slog.Logger) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, cache: cache, logger: logger}
}

// Execute 查询图书详情(含已下架)
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookResponse, error) {
	cached, err := uc.cache.Get(ctx, id)
	if err != nil {
		uc.logger.WarnContext(ctx, "book cache get failed", "book_id", id, "error", err)
	}
	if cached != nil {
		resp := ToResponse(cached)
		return &resp, nil
	}

	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, b); err != nil {
		uc.logger.WarnContext(ctx, "book cache set failed", "book_id", id, "error", err)
	}

	resp := ToResponse(b)
	return &resp, nil
}

// SearchBy 列表查询方式
type SearchBy int

const (
	SearchAll SearchBy = iota
	SearchByCategory
	SearchByAuthor
	SearchByTitle
)

// ListBooksRequest 图书列表请求
type ListBooksRequest struct {
	By         SearchBy
	CategoryID uint   // SearchByCategory
	Keyword    string // SearchByAuthor / SearchByTitle
	Page       shared.PageQuery
}

// ListBooksUseCase 在架图书列表与搜索
type ListBooksUseCase struct {
	bookService book.Service
	pagination  config.PaginationConfig
}

// NewListBooksUseCase 创建图书列表用例
func NewListBooksUseCase(bookService book.Service, pagination config.PaginationConfig) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService, pagination: pagination}
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (shared.Page[BookResponse], error) {
	q := req.Page
	q.PageSize = uc.pagination.Resolve(q.PageSize)

	var (
		page shared.Page[*book.Book]
		err  error
	)
	switch req.By {
	case SearchByCategory:
		page, err = uc.bookService.SearchByCategory(ctx, req.CategoryID, q)
	case SearchByAuthor:
		page, err = uc.bookService.SearchByAuthor(ctx, req.Keyword, q)
	case SearchByTitle:
		page, err = uc.bookService.SearchByTitle(ctx, req.Keyword, q)
	default:
		page, err = uc.bookService.ListBooks(ctx, q)
	}
	if err != nil {
		return shared.Page[BookResponse]{}, err
	}

	return shared.MapPage(page, ToResponse), nil
}
