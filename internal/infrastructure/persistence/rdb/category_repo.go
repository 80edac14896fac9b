package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var categorySortColumns = map[string]string{
	"categoryId":   "id",
	"categoryName": "name",
}

// categoryRepository 分类仓储实现
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

// Create 创建分类
// 名称唯一性由name_key唯一索引保证,冲突转换为业务错误
func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := toCategoryModel(c)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrNameTaken(c.Name)
		}
		return apperrors.Wrap(err, "创建分类失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	return r.first(getDB(ctx, r.db), id)
}

// LockByID SELECT ... FOR UPDATE
func (r *categoryRepository) LockByID(ctx context.Context, id uint) (*category.Category, error) {
	return r.first(getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// Update 修改名称,调用方已在事务内LockByID
func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	err := getDB(ctx, r.db).Model(&CategoryModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"name":       c.Name,
			"name_key":   c.NameKey(),
			"updated_at": c.UpdatedAt,
		}).Error
	if err != nil {
		if isDuplicateError(err) {
			return category.ErrNameTaken(c.Name)
		}
		return apperrors.Wrap(err, "更新分类失败")
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&CategoryModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除分类失败")
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

// HasBooks EXISTS查询,命中第一行即返回
func (r *categoryRepository) HasBooks(ctx context.Context, id uint) (bool, error) {
	var exists bool
	err := getDB(ctx, r.db).
		Raw("SELECT EXISTS(SELECT 1 FROM books WHERE category_id = ?)", id).
		Scan(&exists).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询分类引用失败")
	}
	return exists, nil
}

func (r *categoryRepository) List(ctx context.Context, q shared.PageQuery) ([]*category.Category, int64, error) {
	var (
		models []CategoryModel
		total  int64
	)

	query := getDB(ctx, r.db).Model(&CategoryModel{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询分类总数失败")
	}
	if err := paginate(query, q, categorySortColumns).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询分类列表失败")
	}

	items := make([]*category.Category, len(models))
	for i := range models {
		items[i] = toCategoryEntity(&models[i])
	}
	return items, total, nil
}

func (r *categoryRepository) first(db *gorm.DB, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return toCategoryEntity(&model), nil
}
