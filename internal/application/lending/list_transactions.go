package lending

import (
	"context"

	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/shared"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

// ListMyTransactionsUseCase 当前用户的借阅记录
type ListMyTransactionsUseCase struct {
	lendingService lending.Service
	pagination     config.PaginationConfig
}

// NewListMyTransactionsUseCase 创建借阅记录查询用例
func NewListMyTransactionsUseCase(lendingService lending.Service, pagination config.PaginationConfig) *ListMyTransactionsUseCase {
	return &ListMyTransactionsUseCase{lendingService: lendingService, pagination: pagination}
}

// Execute 分页查询
func (uc *ListMyTransactionsUseCase) Execute(ctx context.Context, userID uint, q shared.PageQuery) (shared.Page[TransactionResponse], error) {
	q.PageSize = uc.pagination.Resolve(q.PageSize)

	page, err := uc.lendingService.ListUserTransactions(ctx, userID, q)
	if err != nil {
		return shared.Page[TransactionResponse]{}, err
	}
	return shared.MapPage(page, toResponse), nil
}
