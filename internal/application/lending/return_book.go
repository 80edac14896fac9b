package lending

import (
	"context"
	"log/slog"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/pkg/metrics"
)

// ReturnBookUseCase 还书用例
type ReturnBookUseCase struct {
	ledger
}

// NewReturnBookUseCase 创建还书用例
func NewReturnBookUseCase(
	lendingService lending.Service,
	cache book.Cache,
	publisher lending.EventPublisher,
	logger *slog.Logger,
) *ReturnBookUseCase {
	return &ReturnBookUseCase{ledger{
		lendingService: lendingService,
		cache:          cache,
		publisher:      publisher,
		logger:         logger,
	}}
}

// Execute 还书
func (uc *ReturnBookUseCase) Execute(ctx context.Context, userID, bookID uint) (*TransactionResponse, error) {
	return uc.run(ctx, metrics.OperationReturn, lending.EventReturned, userID, bookID, uc.lendingService.Return)
}
