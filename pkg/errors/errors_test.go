package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WithField(t *testing.T) {
	t.Run("不修改预定义错误", func(t *testing.T) {
		e := ErrInvalidParams.WithField("title", "不能为空")

		assert.Equal(t, "不能为空", e.Fields["title"])
		assert.Empty(t, ErrInvalidParams.Fields)
		assert.True(t, errors.Is(e, ErrInvalidParams))
	})

	t.Run("字段按名称排序输出", func(t *testing.T) {
		e := Validation(map[string]string{"summary": "x", "author": "y"})

		assert.Equal(t, []string{"author", "summary"}, e.FieldNames())
		assert.Contains(t, e.Error(), "(author,summary)")
	})
}

func TestAppError_Unwrap(t *testing.T) {
	e := ErrTimeout.WithErr(context.DeadlineExceeded)

	assert.True(t, errors.Is(e, context.DeadlineExceeded))
	assert.True(t, errors.Is(e, ErrTimeout))
	assert.False(t, errors.Is(e, ErrStorageUnavailable))
}

func TestKindHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
		want bool
	}{
		{"通用不存在", ErrNotFound, IsNotFound, true},
		{"实体不存在", New(ErrCodeBookNotFound, "图书不存在"), IsNotFound, true},
		{"校验错误", Validation(nil), IsValidation, true},
		{"引用不存在属于校验错误", ErrInvalidReference, IsValidation, true},
		{"超时", ErrTimeout, IsTimeout, true},
		{"取消", ErrCanceled, IsCanceled, true},
		{"取消不算超时", ErrCanceled, IsTimeout, false},
		{"存储不可用", ErrStorageUnavailable, IsStorageUnavailable, true},
		{"悬空引用", ErrDanglingReference, IsDanglingReference, true},
		{"被引用", ErrReferenced, IsReferenced, true},
		{"普通错误", errors.New("boom"), IsNotFound, false},
		{"nil", nil, IsTimeout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.is(tt.err))
		})
	}
}

func TestGetAppError(t *testing.T) {
	plain := errors.New("disk full")

	appErr := GetAppError(plain)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, plain)

	same := GetAppError(ErrTimeout)
	assert.Same(t, ErrTimeout, same)
}
