package lending

import (
	"context"
	"log/slog"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/pkg/metrics"
)

// BorrowBookUseCase 借书用例
// 借阅人ID由认证中间件从JWT中取出,显式传入
type BorrowBookUseCase struct {
	ledger
}

// NewBorrowBookUseCase 创建借书用例
func NewBorrowBookUseCase(
	lendingService lending.Service,
	cache book.Cache,
	publisher lending.EventPublisher,
	logger *slog.Logger,
) *BorrowBookUseCase {
	return &BorrowBookUseCase{ledger{
		lendingService: lendingService,
		cache:          cache,
		publisher:      publisher,
		logger:         logger,
	}}
}

// Execute 借书
func (uc *BorrowBookUseCase) Execute(ctx context.Context, userID, bookID uint) (*TransactionResponse, error) {
	return uc.run(ctx, metrics.OperationBorrow, lending.EventBorrowed, userID, bookID, uc.lendingService.Borrow)
}
