package lending

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

const tracerName = "library/lending"

// ledger 借还用例的公共部分
//  1. 创建Span(user.id、book.id)
//  2. 调用领域服务(事务内完成锁定、校验、写记录、改副本数)
//  3. 记录指标
//  4. 提交后删除图书缓存、发布事件;这两步失败只记录日志,不影响结果
type ledger struct {
	lendingService lending.Service
	cache          book.Cache
	publisher      lending.EventPublisher
	logger         *slog.Logger
}

type ledgerOp func(ctx context.Context, userID, bookID uint) (*lending.Transaction, error)

func (l *ledger) run(ctx context.Context, operation, eventType string, userID, bookID uint, op ledgerOp) (_ *TransactionResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "lending."+spanSuffix(operation))
	span.SetAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("book.id", int64(bookID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	start := time.Now()
	t, err := op(ctx, userID, bookID)
	metrics.RecordLending(operation, time.Since(start).Seconds(), err)
	if err != nil {
		l.logger.InfoContext(ctx, "lending rejected",
			"operation", operation,
			"user_id", userID,
			"book_id", bookID,
			"error", err,
		)
		return nil, err
	}

	if err := l.cache.Delete(ctx, bookID); err != nil {
		l.logger.WarnContext(ctx, "book cache invalidate failed", "book_id", bookID, "error", err)
	}

	event := lending.NewEvent(eventType, t)
	if err := l.publisher.Publish(ctx, event); err != nil {
		metrics.RecordEventPublished(eventType, false)
		l.logger.ErrorContext(ctx, "publish lending event failed",
			"type", eventType,
			"transaction_id", t.ID,
			"error", err,
		)
	} else {
		metrics.RecordEventPublished(eventType, true)
	}

	resp := toResponse(t)
	return &resp, nil
}

func spanSuffix(operation string) string {
	if operation == metrics.OperationReturn {
		return "Return"
	}
	return "Borrow"
}
