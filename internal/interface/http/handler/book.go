package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书处理器
type BookHandler struct {
	addUseCase    *appbook.AddBookUseCase
	getUseCase    *appbook.GetBookUseCase
	listUseCase   *appbook.ListBooksUseCase
	updateUseCase *appbook.UpdateBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	addUseCase *appbook.AddBookUseCase,
	getUseCase *appbook.GetBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
) *BookHandler {
	return &BookHandler{
		addUseCase:    addUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
		updateUseCase: updateUseCase,
	}
}

// AddBook 向分类添加图书
// @Summary      添加图书
// @Tags         图书
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        categoryId path int true "分类ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response "书名为空/副本数不合法"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/admin/categories/{categoryId}/book [post]
func (h *BookHandler) AddBook(c *gin.Context) {
	categoryID, ok := pathID(c, "categoryId")
	if !ok {
		return
	}

	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.addUseCase.Execute(c.Request.Context(), categoryID, toBookInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/public/books/{bookId} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBooks 在架图书列表
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Param        pageNumber query int false "页码(从0开始)"
// @Param        pageSize   query int false "每页数量"
// @Param        sortBy     query string false "排序字段(bookId/title/author/copiesTotal/copiesAvailable)"
// @Param        sortOrder  query string false "asc/desc"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/public/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	h.list(c, appbook.ListBooksRequest{By: appbook.SearchAll})
}

// ListByCategory 按分类查询
// @Summary      按分类查询图书
// @Tags         图书
// @Produce      json
// @Param        categoryId path int true "分类ID"
// @Success      200 {object} response.Response{data=response.PageData}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/public/categories/{categoryId}/books [get]
func (h *BookHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "categoryId")
	if !ok {
		return
	}
	h.list(c, appbook.ListBooksRequest{By: appbook.SearchByCategory, CategoryID: categoryID})
}

// SearchByAuthor 按作者模糊查询
// @Summary      按作者查询图书
// @Tags         图书
// @Produce      json
// @Param        author query string true "作者关键词"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/public/books/author [get]
func (h *BookHandler) SearchByAuthor(c *gin.Context) {
	h.list(c, appbook.ListBooksRequest{By: appbook.SearchByAuthor, Keyword: c.Query("author")})
}

// SearchByTitle 按书名模糊查询
// @Summary      按书名查询图书
// @Tags         图书
// @Produce      json
// @Param        title query string true "书名关键词"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/public/books/title [get]
func (h *BookHandler) SearchByTitle(c *gin.Context) {
	h.list(c, appbook.ListBooksRequest{By: appbook.SearchByTitle, Keyword: c.Query("title")})
}

// UpdateBook 全量更新
// @Summary      全量更新图书
// @Tags         图书
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response "图书已下架/参数错误"
// @Router       /api/admin/books/{bookId} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.updateUseCase.Replace(c.Request.Context(), id, toBookInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PatchBook 部分更新
// @Summary      部分更新图书
// @Tags         图书
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Param        request body dto.BookPatchRequest true "需要修改的字段"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Router       /api/admin/books/{bookId} [patch]
func (h *BookHandler) PatchBook(c *gin.Context) {
	id, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	var req dto.BookPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.updateUseCase.Patch(c.Request.Context(), id, appbook.PatchInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CopiesTotal: req.CopiesTotal,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 下架图书(软删除)
// @Summary      下架图书
// @Tags         图书
// @Security     BearerAuth
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Router       /api/admin/books/{bookId} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	result, err := h.updateUseCase.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// =========================================
// 辅助函数
// =========================================

func (h *BookHandler) list(c *gin.Context, req appbook.ListBooksRequest) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	req.Page = q.ToDomain()

	page, err := h.listUseCase.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	successPage(c, page)
}

func toBookInput(req dto.BookRequest) appbook.BookInput {
	return appbook.BookInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CopiesTotal: req.CopiesTotal,
		CategoryID:  req.CategoryID,
	}
}
