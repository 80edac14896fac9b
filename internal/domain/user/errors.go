package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// ErrUserNotFound 用户不存在
var ErrUserNotFound = apperrors.ErrUserNotFound

// ErrUsernameTaken 用户名已被占用
func ErrUsernameTaken(username string) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeUsernameTaken, "username %s is already taken", username)
}

// ErrEmailTaken 邮箱已被注册
func ErrEmailTaken(email string) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeEmailTaken, "email %s is already registered", email)
}
