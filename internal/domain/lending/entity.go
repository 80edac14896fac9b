package lending

import (
	"fmt"
	"time"
)

// Transaction 借阅记录(聚合根)
// 状态只有一次转换:未归还 -> 已归还,记录永不删除
type Transaction struct {
	ID         uint
	BookID     uint
	UserID     uint
	BorrowedAt time.Time  // 借出时间,创建后不变
	ReturnedAt *time.Time // 归还时间,归还时设置一次
	Returned   bool
}

// NewTransaction 创建未归还的借阅记录
func NewTransaction(userID, bookID uint, now time.Time) *Transaction {
	return &Transaction{
		BookID:     bookID,
		UserID:     userID,
		BorrowedAt: now,
	}
}

// IsOpen 是否未归还
func (t *Transaction) IsOpen() bool {
	return !t.Returned
}

// MarkReturned 标记归还
func (t *Transaction) MarkReturned(now time.Time) error {
	if t.Returned {
		return ErrNotBorrowed
	}
	t.Returned = true
	t.ReturnedAt = &now
	return nil
}

// OpenKey 未归还记录的唯一键,已归还返回空串
// 数据库对该列建唯一索引,保证同一用户同一本书最多一条未归还记录
func (t *Transaction) OpenKey() string {
	if t.Returned {
		return ""
	}
	return OpenKeyOf(t.UserID, t.BookID)
}

// OpenKeyOf 用户ID:图书ID
func OpenKeyOf(userID, bookID uint) string {
	return fmt.Sprintf("%d:%d", userID, bookID)
}
