package category

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "category not found")

	// ErrCategoryInUse 仍有图书引用该分类
	ErrCategoryInUse = apperrors.New(apperrors.ErrCodeInUse, "category in use")

	// ErrEmptyName 名称为空
	ErrEmptyName = apperrors.New(apperrors.ErrCodeInvalidParams, "category name must not be empty")
)

// ErrNameTaken 名称已被其他分类占用(大小写不敏感)
func ErrNameTaken(name string) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeDuplicateEntry, "category name is already in use: %s", name)
}
