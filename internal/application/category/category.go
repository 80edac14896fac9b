package category

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/shared"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

// =========================================
// 应用层DTO
// =========================================

// CategoryResponse 分类响应
type CategoryResponse struct {
	ID        uint      `json:"category_id"`
	Name      string    `json:"category_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(c *category.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ListCategoriesUseCase 分类列表查询
type ListCategoriesUseCase struct {
	categoryService category.Service
	pagination      config.PaginationConfig
}

// NewListCategoriesUseCase 创建分类列表用例
func NewListCategoriesUseCase(categoryService category.Service, pagination config.PaginationConfig) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categoryService: categoryService, pagination: pagination}
}

// Execute 分页查询分类,页大小未指定时使用配置默认值
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, q shared.PageQuery) (shared.Page[CategoryResponse], error) {
	q.PageSize = uc.pagination.Resolve(q.PageSize)

	page, err := uc.categoryService.List(ctx, q)
	if err != nil {
		return shared.Page[CategoryResponse]{}, err
	}
	return shared.MapPage(page, toResponse), nil
}

// CreateCategoryUseCase 创建分类
type CreateCategoryUseCase struct {
	categoryService category.Service
}

// NewCreateCategoryUseCase 创建分类用例
func NewCreateCategoryUseCase(categoryService category.Service) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{categoryService: categoryService}
}

// Execute 创建分类
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, name string) (*CategoryResponse, error) {
	c, err := uc.categoryService.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	resp := toResponse(c)
	return &resp, nil
}

// UpdateCategoryUseCase 修改分类名称
type UpdateCategoryUseCase struct {
	categoryService category.Service
}

// NewUpdateCategoryUseCase 创建修改分类用例
func NewUpdateCategoryUseCase(categoryService category.Service) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{categoryService: categoryService}
}

// Execute 修改分类名称
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, id uint, name string) (*CategoryResponse, error) {
	c, err := uc.categoryService.Update(ctx, id, name)
	if err != nil {
		return nil, err
	}
	resp := toResponse(c)
	return &resp, nil
}

// DeleteCategoryUseCase 删除分类
type DeleteCategoryUseCase struct {
	categoryService category.Service
}

// NewDeleteCategoryUseCase 创建删除分类用例
func NewDeleteCategoryUseCase(categoryService category.Service) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{categoryService: categoryService}
}

// Execute 删除分类,返回删除前的快照
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, id uint) (*CategoryResponse, error) {
	c, err := uc.categoryService.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(c)
	return &resp, nil
}
