package handler

import (
	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/library/internal/application/category"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// CategoryHandler 分类处理器
type CategoryHandler struct {
	listUseCase   *appcategory.ListCategoriesUseCase
	createUseCase *appcategory.CreateCategoryUseCase
	updateUseCase *appcategory.UpdateCategoryUseCase
	deleteUseCase *appcategory.DeleteCategoryUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(
	listUseCase *appcategory.ListCategoriesUseCase,
	createUseCase *appcategory.CreateCategoryUseCase,
	updateUseCase *appcategory.UpdateCategoryUseCase,
	deleteUseCase *appcategory.DeleteCategoryUseCase,
) *CategoryHandler {
	return &CategoryHandler{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Param        pageNumber query int false "页码(从0开始)"
// @Param        pageSize   query int false "每页数量"
// @Param        sortBy     query string false "排序字段(categoryId/categoryName)"
// @Param        sortOrder  query string false "asc/desc"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/public/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	page, err := h.listUseCase.Execute(c.Request.Context(), q.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}
	successPage(c, page)
}

// Create 创建分类
// @Summary      创建分类
// @Tags         分类
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body dto.CategoryRequest true "分类名称"
// @Success      201 {object} response.Response{data=appcategory.CategoryResponse}
// @Failure      409 {object} response.Response "名称已存在"
// @Router       /api/admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update 修改分类名称
// @Summary      修改分类
// @Tags         分类
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        categoryId path int true "分类ID"
// @Param        request body dto.CategoryRequest true "新名称"
// @Success      200 {object} response.Response{data=appcategory.CategoryResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Failure      409 {object} response.Response "名称已存在"
// @Router       /api/admin/categories/{categoryId} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "categoryId")
	if !ok {
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除分类
// @Summary      删除分类
// @Tags         分类
// @Security     BearerAuth
// @Produce      json
// @Param        categoryId path int true "分类ID"
// @Success      200 {object} response.Response{data=appcategory.CategoryResponse}
// @Failure      409 {object} response.Response "分类下仍有图书"
// @Router       /api/admin/categories/{categoryId} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "categoryId")
	if !ok {
		return
	}

	result, err := h.deleteUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
