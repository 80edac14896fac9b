package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfCode(t *testing.T) {
	tests := []struct {
		code int
		want Kind
	}{
		{ErrCodeBusinessError, KindBusiness},
		{ErrCodeNoCopiesAvailable, KindBusiness},
		{ErrCodeUnauthorized, KindUnauthorized},
		{ErrCodeTokenExpired, KindUnauthorized},
		{ErrCodeForbidden, KindForbidden},
		{ErrCodeBookNotFound, KindNotFound},
		{ErrCodeInUse, KindConflict},
		{ErrCodeInvalidParams, KindValidation},
		{ErrCodeDatabaseError, KindInternal},
		{12345, KindInternal},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOfCode(tt.code))
		})
	}
}

func TestAppError_IsThroughWrapping(t *testing.T) {
	sentinel := New(ErrCodeBookInactive, "cannot update inactive book")

	t.Run("包装后仍可识别", func(t *testing.T) {
		wrapped := fmt.Errorf("update book 7: %w", sentinel)
		assert.ErrorIs(t, wrapped, sentinel)
		assert.True(t, IsBusiness(wrapped))
	})

	t.Run("同码同消息的新实例视为相等", func(t *testing.T) {
		fresh := New(ErrCodeBookInactive, "cannot update inactive book")
		assert.ErrorIs(t, fresh, sentinel)
	})

	t.Run("消息不同不相等", func(t *testing.T) {
		other := New(ErrCodeBookInactive, "something else")
		assert.NotErrorIs(t, other, sentinel)
	})
}

func TestGetAppError(t *testing.T) {
	t.Run("AppError原样返回", func(t *testing.T) {
		src := NotFound("book not found")
		assert.Same(t, src, GetAppError(src))
	})

	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		raw := stderrors.New("connection refused")
		got := GetAppError(raw)
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.ErrorIs(t, got, raw)
		assert.Equal(t, KindInternal, KindOf(raw))
	})
}

func TestKindHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("x")))
	assert.True(t, IsValidation(Validation("x")))
	assert.True(t, IsConflict(Conflict("x")))
	assert.True(t, IsBusiness(Business("x")))
	assert.False(t, IsNotFound(nil))
	assert.Equal(t, "conflict", KindConflict.String())
	assert.Equal(t, "[42200] bad: boom", (&AppError{Code: ErrCodeInvalidParams, Message: "bad", Err: stderrors.New("boom")}).Error())
}
