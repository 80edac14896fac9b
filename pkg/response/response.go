package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），方便客户端判断错误类型
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := uc.Execute(ctx, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	// 提取AppError
	appErr := apperrors.GetAppError(err)
	kind := apperrors.KindOfCode(appErr.Code)

	// 内部错误记录完整错误链，客户端只看到Message
	if kind == apperrors.KindInternal {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", appErr.Error(),
		)
	}

	c.JSON(StatusOf(kind), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    nil,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(StatusOf(apperrors.KindOfCode(code)), Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// StatusOf 错误种类 → HTTP状态码
func StatusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindValidation, apperrors.KindBusiness:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装（页码从0开始）
type PageData struct {
	Content       interface{} `json:"content"`        // 当前页数据
	PageNumber    int         `json:"page_number"`    // 当前页码
	PageSize      int         `json:"page_size"`      // 每页大小
	TotalElements int64       `json:"total_elements"` // 总记录数
	TotalPages    int         `json:"total_pages"`    // 总页数
	LastPage      bool        `json:"last_page"`      // 是否最后一页
}

// NewPageData 创建分页数据
func NewPageData(content interface{}, total int64, pageNumber, pageSize int) *PageData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize != 0 {
			totalPages++
		}
	}

	return &PageData{
		Content:       content,
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		LastPage:      pageNumber+1 >= totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, content interface{}, total int64, pageNumber, pageSize int) {
	Success(c, NewPageData(content, total, pageNumber, pageSize))
}
