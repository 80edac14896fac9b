package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "book not found")

	// ErrEmptyTitle 书名为空
	ErrEmptyTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "title must not be empty")

	// ErrInvalidCopiesTotal 总副本数必须大于0
	ErrInvalidCopiesTotal = apperrors.New(apperrors.ErrCodeInvalidParams, "total copies must be greater than 0")

	// ErrTotalBelowBorrowed 总副本数小于已借出数
	ErrTotalBelowBorrowed = apperrors.New(apperrors.ErrCodeInvalidParams, "total copies cannot be less than borrowed copies")

	// ErrBookInactive 已下架的图书不能修改
	ErrBookInactive = apperrors.New(apperrors.ErrCodeBookInactive, "cannot update inactive book")

	// ErrNotBorrowable 已下架的图书不能借阅
	ErrNotBorrowable = apperrors.New(apperrors.ErrCodeBookInactive, "book no longer borrowable")

	// ErrNoCopiesAvailable 没有可借副本
	ErrNoCopiesAvailable = apperrors.New(apperrors.ErrCodeNoCopiesAvailable, "no copies available")

	// ErrCopiesOutOfSync 归还时可借数已等于总数(并发修改导致)
	ErrCopiesOutOfSync = apperrors.New(apperrors.ErrCodeConflict, "book copy counts changed concurrently")
)
