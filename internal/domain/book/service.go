package book

import (
	"context"
	"strings"

	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 图书领域服务
// 修改类操作都在事务内先锁定图书行,与借还互斥
type Service interface {
	// AddBook 向分类添加图书
	// 业务规则:
	// - 书名非空,总副本数>0
	// - 分类必须存在(锁定分类行,与删除分类互斥)
	AddBook(ctx context.Context, categoryID uint, d Details) (*Book, error)

	// GetBook 根据ID获取图书(含已下架)
	GetBook(ctx context.Context, id uint) (*Book, error)

	// ListBooks 分页查询在架图书
	ListBooks(ctx context.Context, q shared.PageQuery) (shared.Page[*Book], error)

	// SearchByCategory 按分类查询在架图书,分类不存在返回NotFound
	SearchByCategory(ctx context.Context, categoryID uint, q shared.PageQuery) (shared.Page[*Book], error)

	// SearchByAuthor 按作者模糊查询在架图书
	SearchByAuthor(ctx context.Context, author string, q shared.PageQuery) (shared.Page[*Book], error)

	// SearchByTitle 按书名模糊查询在架图书
	SearchByTitle(ctx context.Context, title string, q shared.PageQuery) (shared.Page[*Book], error)

	// UpdateBook 全量更新
	// 业务规则:已下架不能修改;可借数 = 新总数 - 已借出数
	UpdateBook(ctx context.Context, id uint, d Details) (*Book, error)

	// PartialUpdateBook 部分更新
	// 业务规则:只应用提供的字段;分类不存在时保留原分类
	PartialUpdateBook(ctx context.Context, id uint, p Patch) (*Book, error)

	// DeleteBook 下架(软删除),返回下架后的快照
	DeleteBook(ctx context.Context, id uint) (*Book, error)
}

type service struct {
	repo       Repository
	categories category.Repository
	txManager  shared.TxManager
}

// NewService 创建图书领域服务
func NewService(repo Repository, categories category.Repository, txManager shared.TxManager) Service {
	return &service{repo: repo, categories: categories, txManager: txManager}
}

func (s *service) AddBook(ctx context.Context, categoryID uint, d Details) (*Book, error) {
	// 1. 先做不依赖存储的校验
	b, err := NewBook(categoryID, d)
	if err != nil {
		return nil, err
	}

	err = s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 2. 锁定分类行(分类不存在返回ErrCategoryNotFound)
		if _, err := s.categories.LockByID(txCtx, categoryID); err != nil {
			return err
		}

		// 3. 持久化
		return s.repo.Create(txCtx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, q shared.PageQuery) (shared.Page[*Book], error) {
	return s.list(ctx, Filter{ActiveOnly: true}, q)
}

func (s *service) SearchByCategory(ctx context.Context, categoryID uint, q shared.PageQuery) (shared.Page[*Book], error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return shared.Page[*Book]{}, err
	}
	return s.list(ctx, Filter{CategoryID: categoryID, ActiveOnly: true}, q)
}

func (s *service) SearchByAuthor(ctx context.Context, author string, q shared.PageQuery) (shared.Page[*Book], error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return shared.Page[*Book]{}, apperrors.Validation("author must not be empty")
	}
	return s.list(ctx, Filter{Author: author, ActiveOnly: true}, q)
}

func (s *service) SearchByTitle(ctx context.Context, title string, q shared.PageQuery) (shared.Page[*Book], error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.Page[*Book]{}, ErrEmptyTitle
	}
	return s.list(ctx, Filter{Title: title, ActiveOnly: true}, q)
}

func (s *service) UpdateBook(ctx context.Context, id uint, d Details) (*Book, error) {
	return s.mutate(ctx, id, func(txCtx context.Context, b *Book) error {
		// 已下架优先于参数校验返回
		if !b.IsActive() {
			return ErrBookInactive
		}
		if d.CategoryID != 0 {
			if _, err := s.categories.FindByID(txCtx, d.CategoryID); err != nil {
				return err
			}
		}
		return b.Replace(d)
	})
}

func (s *service) PartialUpdateBook(ctx context.Context, id uint, p Patch) (*Book, error) {
	return s.mutate(ctx, id, func(txCtx context.Context, b *Book) error {
		if !b.IsActive() {
			return ErrBookInactive
		}
		if p.CategoryID != nil {
			_, err := s.categories.FindByID(txCtx, *p.CategoryID)
			switch {
			case apperrors.IsNotFound(err):
				p.CategoryID = nil
			case err != nil:
				return err
			}
		}
		return b.ApplyPatch(p)
	})
}

func (s *service) DeleteBook(ctx context.Context, id uint) (*Book, error) {
	return s.mutate(ctx, id, func(_ context.Context, b *Book) error {
		b.Deactivate()
		return nil
	})
}

// =========================================
// 辅助函数
// =========================================

// mutate 锁定图书行,执行修改并保存
func (s *service) mutate(ctx context.Context, id uint, fn func(txCtx context.Context, b *Book) error) (*Book, error) {
	var result *Book
	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := s.repo.LockByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := fn(txCtx, b); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, b); err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) list(ctx context.Context, filter Filter, q shared.PageQuery) (shared.Page[*Book], error) {
	q, err := q.Normalize(SortFields)
	if err != nil {
		return shared.Page[*Book]{}, err
	}

	books, total, err := s.repo.List(ctx, filter, q)
	if err != nil {
		return shared.Page[*Book]{}, err
	}
	return shared.NewPage(books, q, total), nil
}
