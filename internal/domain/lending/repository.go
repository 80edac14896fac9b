package lending

import (
	"context"

	"github.com/xiebiao/library/internal/domain/shared"
)

// SortFields 允许排序的属性,第一个为默认值
var SortFields = []string{"transactionId", "borrowedDate"}

// Repository 借阅记录仓储接口
type Repository interface {
	// Create 创建借阅记录
	// 同一(用户,图书)已有未归还记录时(唯一索引冲突)返回ErrAlreadyBorrowed
	Create(ctx context.Context, t *Transaction) error

	// FindOpen 查找未归还记录,不存在返回ErrTransactionNotFound
	FindOpen(ctx context.Context, userID, bookID uint) (*Transaction, error)

	// MarkReturned 保存归还状态
	// 条件更新:WHERE id = ? AND returned = false,未命中返回ErrNotBorrowed
	MarkReturned(ctx context.Context, t *Transaction) error

	// ListByUser 分页查询用户的借阅记录,q已经过Normalize
	ListByUser(ctx context.Context, userID uint, q shared.PageQuery) ([]*Transaction, int64, error)
}
