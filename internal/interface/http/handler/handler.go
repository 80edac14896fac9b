// Package handler HTTP处理器
//
// Handler只做三件事:绑定参数、调用应用层用例、写统一响应。
// 借还操作的用户ID取自认证中间件写入的Claims,显式传给用例。
package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// bindError 参数绑定/校验失败
// 校验错误逐个字段转成可读信息,其余(JSON格式错误等)原样返回
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "invalid request: "+err.Error())
		return
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	response.ErrorWithCode(c, apperrors.ErrCodeBindError, strings.Join(msgs, "; "))
}

// fieldMessage 单个字段的校验错误信息
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}

// pathID 解析路径中的ID参数
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "invalid "+name+": "+c.Param(name))
		return 0, false
	}
	return uint(id), true
}

// successPage 分页响应
func successPage[T any](c *gin.Context, p shared.Page[T]) {
	response.Success(c, &response.PageData{
		Content:       p.Content,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		LastPage:      p.LastPage,
	})
}
