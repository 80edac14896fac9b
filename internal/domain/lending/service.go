package lending

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/shared"
	"github.com/xiebiao/library/internal/domain/user"
)

// Service 借阅领域服务
//
// 并发控制:借还在同一个数据库事务内完成
//  1. SELECT FOR UPDATE 锁定图书行,同一本书的借还串行执行
//  2. 在锁内检查在架、可借数、是否已借
//  3. 先写借阅记录,再CAS扣减可借数
//  4. 任何一步失败整个事务回滚,借阅记录和副本数不会不一致
//
// 另外借阅记录表的open_key唯一索引兜底"同一用户同一本书最多一条未归还记录"
type Service interface {
	// Borrow 借书
	Borrow(ctx context.Context, userID, bookID uint) (*Transaction, error)

	// Return 还书
	Return(ctx context.Context, userID, bookID uint) (*Transaction, error)

	// ListUserTransactions 分页查询用户的借阅记录
	ListUserTransactions(ctx context.Context, userID uint, q shared.PageQuery) (shared.Page[*Transaction], error)
}

type service struct {
	repo      Repository
	books     book.Repository
	users     user.Repository
	txManager shared.TxManager
	now       func() time.Time
}

// NewService 创建借阅领域服务
func NewService(repo Repository, books book.Repository, users user.Repository, txManager shared.TxManager) Service {
	return &service{
		repo:      repo,
		books:     books,
		users:     users,
		txManager: txManager,
		now:       time.Now,
	}
}

func (s *service) Borrow(ctx context.Context, userID, bookID uint) (*Transaction, error) {
	// 1. 确认用户存在
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	var result *Transaction
	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 2. 锁定图书行
		b, err := s.books.LockByID(txCtx, bookID)
		if err != nil {
			return err
		}

		// 3. 在架检查
		if !b.IsActive() {
			return book.ErrNotBorrowable
		}

		// 4. 可借数检查
		if b.CopiesAvailable <= 0 {
			return book.ErrNoCopiesAvailable
		}

		// 5. 重复借阅检查
		open, err := s.repo.FindOpen(txCtx, userID, bookID)
		if err != nil && !errors.Is(err, ErrTransactionNotFound) {
			return err
		}
		if open != nil {
			return ErrAlreadyBorrowed
		}

		// 6. 先写借阅记录,再扣减副本
		t := NewTransaction(userID, bookID, s.now())
		if err := s.repo.Create(txCtx, t); err != nil {
			return err
		}
		if err := b.BorrowOneCopy(); err != nil {
			return err
		}
		if err := s.books.UpdateCopies(txCtx, bookID, -1); err != nil {
			return err
		}

		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Return(ctx context.Context, userID, bookID uint) (*Transaction, error) {
	// 1. 确认用户存在
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	var result *Transaction
	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 2. 锁定图书行(已下架的书也允许归还)
		b, err := s.books.LockByID(txCtx, bookID)
		if err != nil {
			return err
		}

		// 3. 查找未归还记录
		t, err := s.repo.FindOpen(txCtx, userID, bookID)
		if errors.Is(err, ErrTransactionNotFound) {
			return ErrNotBorrowed
		}
		if err != nil {
			return err
		}

		// 4. 标记归还并保存
		if err := t.MarkReturned(s.now()); err != nil {
			return err
		}
		if err := s.repo.MarkReturned(txCtx, t); err != nil {
			return err
		}

		// 5. 归还副本(可借数已满时不变)
		if b.ReturnOneCopy() {
			if err := s.books.UpdateCopies(txCtx, bookID, 1); err != nil {
				return err
			}
		}

		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ListUserTransactions(ctx context.Context, userID uint, q shared.PageQuery) (shared.Page[*Transaction], error) {
	q, err := q.Normalize(SortFields)
	if err != nil {
		return shared.Page[*Transaction]{}, err
	}

	items, total, err := s.repo.ListByUser(ctx, userID, q)
	if err != nil {
		return shared.Page[*Transaction]{}, err
	}
	return shared.NewPage(items, q, total), nil
}
