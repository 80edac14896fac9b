package category

import (
	"context"
	"strings"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Service 分类领域服务
type Service interface {
	// List 分页查询分类,空结果不是错误
	List(ctx context.Context, q shared.PageQuery) (shared.Page[*Category], error)

	// Get 根据ID获取分类
	Get(ctx context.Context, id uint) (*Category, error)

	// Create 创建分类
	// 业务规则:名称非空,大小写不敏感唯一
	Create(ctx context.Context, name string) (*Category, error)

	// Update 修改分类名称
	// 业务规则:新名称不能与其他分类重复
	Update(ctx context.Context, id uint, name string) (*Category, error)

	// Delete 删除分类,返回删除前的快照
	// 业务规则:仍有图书引用时不能删除
	Delete(ctx context.Context, id uint) (*Category, error)
}

type service struct {
	repo      Repository
	txManager shared.TxManager
}

// NewService 创建分类领域服务
func NewService(repo Repository, txManager shared.TxManager) Service {
	return &service{repo: repo, txManager: txManager}
}

func (s *service) List(ctx context.Context, q shared.PageQuery) (shared.Page[*Category], error) {
	q, err := q.Normalize(SortFields)
	if err != nil {
		return shared.Page[*Category]{}, err
	}

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return shared.Page[*Category]{}, err
	}
	return shared.NewPage(items, q, total), nil
}

func (s *service) Get(ctx context.Context, id uint) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Create(ctx context.Context, name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	c := NewCategory(name)
	// 重复名称由唯一索引拦截,Repository转换为ErrNameTaken
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, id uint, name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	var updated *Category
	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := s.repo.LockByID(txCtx, id)
		if err != nil {
			return err
		}

		c.Rename(name)
		if err := s.repo.Update(txCtx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uint) (*Category, error) {
	var deleted *Category
	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 锁定分类行,阻止并发的AddBook
		c, err := s.repo.LockByID(txCtx, id)
		if err != nil {
			return err
		}

		// 2. 检查引用
		inUse, err := s.repo.HasBooks(txCtx, id)
		if err != nil {
			return err
		}
		if inUse {
			return ErrCategoryInUse
		}

		// 3. 删除
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
