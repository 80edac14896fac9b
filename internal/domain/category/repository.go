package category

import (
	"context"

	"github.com/xiebiao/library/internal/domain/shared"
)

// SortFields 允许排序的属性,第一个为默认值
var SortFields = []string{"categoryId", "categoryName"}

// Repository 分类仓储接口
// 实现需要满足:
// 1. 名称(规范化后)重复时Create/Update返回ErrNameTaken
// 2. 记录不存在时返回ErrCategoryNotFound
type Repository interface {
	// Create 创建分类
	Create(ctx context.Context, c *Category) error

	// FindByID 根据ID查找分类
	FindByID(ctx context.Context, id uint) (*Category, error)

	// LockByID 悲观锁查询(SELECT FOR UPDATE)
	// 删除分类与向分类添加图书都先锁定分类行,两者互斥
	LockByID(ctx context.Context, id uint) (*Category, error)

	// Update 更新分类名称
	Update(ctx context.Context, c *Category) error

	// Delete 物理删除分类
	Delete(ctx context.Context, id uint) error

	// HasBooks 是否有图书引用该分类(EXISTS查询,不做全表扫描)
	HasBooks(ctx context.Context, id uint) (bool, error)

	// List 分页查询,q已经过Normalize
	List(ctx context.Context, q shared.PageQuery) ([]*Category, int64, error)
}
