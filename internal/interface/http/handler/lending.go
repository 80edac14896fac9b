package handler

import (
	"github.com/gin-gonic/gin"

	applending "github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// LendingHandler 借还处理器
type LendingHandler struct {
	borrowUseCase *applending.BorrowBookUseCase
	returnUseCase *applending.ReturnBookUseCase
	listUseCase   *applending.ListMyTransactionsUseCase
}

// NewLendingHandler 创建借还处理器
func NewLendingHandler(
	borrowUseCase *applending.BorrowBookUseCase,
	returnUseCase *applending.ReturnBookUseCase,
	listUseCase *applending.ListMyTransactionsUseCase,
) *LendingHandler {
	return &LendingHandler{
		borrowUseCase: borrowUseCase,
		returnUseCase: returnUseCase,
		listUseCase:   listUseCase,
	}
}

// Borrow 借书
// @Summary      借书
// @Tags         借阅
// @Security     BearerAuth
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=applending.TransactionResponse}
// @Failure      400 {object} response.Response "已下架/无可借副本/重复借阅"
// @Failure      404 {object} response.Response "图书或用户不存在"
// @Router       /api/borrow/{bookId} [post]
func (h *LendingHandler) Borrow(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	result, err := h.borrowUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Return 还书
// @Summary      还书
// @Tags         借阅
// @Security     BearerAuth
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=applending.TransactionResponse}
// @Failure      400 {object} response.Response "未借阅该书"
// @Router       /api/return/{bookId} [post]
func (h *LendingHandler) Return(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	result, err := h.returnUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListMine 我的借阅记录
// @Summary      我的借阅记录
// @Tags         借阅
// @Security     BearerAuth
// @Produce      json
// @Param        pageNumber query int false "页码(从0开始)"
// @Param        pageSize   query int false "每页数量"
// @Param        sortBy     query string false "排序字段(transactionId/borrowedDate)"
// @Param        sortOrder  query string false "asc/desc"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/borrow/me [get]
func (h *LendingHandler) ListMine(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	page, err := h.listUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), q.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}
	successPage(c, page)
}
