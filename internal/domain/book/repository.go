package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/shared"
)

// SortFields 允许排序的属性,第一个为默认值
var SortFields = []string{"bookId", "title", "author", "copiesTotal", "copiesAvailable"}

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
	// 借还和修改都先锁定图书行,同一本书上的操作串行执行
	LockByID(ctx context.Context, id uint) (*Book, error)

	// Update 保存图书全部字段
	Update(ctx context.Context, book *Book) error

	// UpdateCopies 原子修改可借数(CAS)
	// delta=-1: WHERE 在架 AND copies_available > 0,未命中返回ErrNoCopiesAvailable
	// delta=+1: WHERE copies_available < copies_total,未命中返回ErrCopiesOutOfSync
	UpdateCopies(ctx context.Context, id uint, delta int) error

	// List 分页查询图书,q已经过Normalize
	List(ctx context.Context, filter Filter, q shared.PageQuery) ([]*Book, int64, error)
}

// Filter 列表过滤条件,零值表示不过滤
type Filter struct {
	CategoryID uint
	Author     string // 作者包含(大小写不敏感)
	Title      string // 书名包含(大小写不敏感)
	ActiveOnly bool
}
