package lending

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrTransactionNotFound 借阅记录不存在
	ErrTransactionNotFound = apperrors.New(apperrors.ErrCodeTransactionNotFound, "transaction not found")

	// ErrAlreadyBorrowed 同一用户已借未还
	ErrAlreadyBorrowed = apperrors.New(apperrors.ErrCodeAlreadyBorrowed, "already borrowed by you")

	// ErrNotBorrowed 没有可归还的借阅记录
	ErrNotBorrowed = apperrors.New(apperrors.ErrCodeNotBorrowed, "not currently borrowed by this user")
)
