package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var bookSortColumns = map[string]string{
	"bookId":          "id",
	"title":           "title",
	"author":          "author",
	"copiesTotal":     "copies_total",
	"copiesAvailable": "copies_available",
}

// bookRepository 图书仓储实现
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 所有查询经过getDB(ctx),在事务内调用时使用同一个事务连接
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.first(getDB(ctx, r.db), id)
}

// LockByID 悲观锁查询图书
// SELECT * FROM books WHERE id = ? FOR UPDATE
// 其他事务必须等待当前事务COMMIT或ROLLBACK后才能读取该行加锁
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.first(getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// Update 保存全部字段
// 调用方已在事务内LockByID,不再检查RowsAffected(MySQL值未变化时返回0)
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", b.ID).
		Select("category_id", "title", "author", "description", "copies_total", "copies_available", "status", "updated_at").
		Updates(model).Error
	if err != nil {
		return apperrors.Wrap(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdateCopies 原子修改可借数
// 借出:UPDATE books SET copies_available = copies_available - 1
//
//	WHERE id = ? AND status = 'ACTIVE' AND copies_available > 0
//
// 归还:UPDATE books SET copies_available = copies_available + 1
//
//	WHERE id = ? AND copies_available < copies_total
func (r *bookRepository) UpdateCopies(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)

	query := db.Model(&BookModel{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("status = ? AND copies_available + ? >= 0", string(book.StatusActive), delta)
	} else {
		query = query.Where("copies_available + ? <= copies_total", delta)
	}

	result := query.Update("copies_available", gorm.Expr("copies_available + ?", delta))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新副本数失败")
	}

	if result.RowsAffected == 0 {
		// 图书不存在,或者条件不满足,再查一次确定原因
		if _, err := r.first(db, id); err != nil {
			return err
		}
		if delta < 0 {
			return book.ErrNoCopiesAvailable
		}
		return book.ErrCopiesOutOfSync
	}
	return nil
}

// List 分页查询图书
func (r *bookRepository) List(ctx context.Context, f book.Filter, q shared.PageQuery) ([]*book.Book, int64, error) {
	var (
		models []BookModel
		total  int64
	)

	query := getDB(ctx, r.db).Model(&BookModel{})
	if f.ActiveOnly {
		query = query.Where("status = ?", string(book.StatusActive))
	}
	if f.CategoryID != 0 {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	// LOWER+LIKE在三种数据库上行为一致(MySQL默认排序规则已不区分大小写,PostgreSQL的LIKE区分)
	if f.Author != "" {
		query = query.Where("LOWER(author) LIKE ?", likePattern(f.Author))
	}
	if f.Title != "" {
		query = query.Where("LOWER(title) LIKE ?", likePattern(f.Title))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}
	if err := paginate(query, q, bookSortColumns).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

func (r *bookRepository) first(db *gorm.DB, id uint) (*book.Book, error) {
	var model BookModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}
