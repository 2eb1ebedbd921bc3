package bookinstance

import (
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

var (
	// ErrInstanceNotFound 副本不存在
	ErrInstanceNotFound = apperrors.New(apperrors.ErrCodeInstanceNotFound, "馆藏副本不存在")

	// ErrInvalidStatus 状态取值非法
	ErrInvalidStatus = apperrors.ErrInvalidParams.WithField("status", "状态取值非法")

	// ErrBookMissing 引用的图书不存在
	ErrBookMissing = apperrors.ErrInvalidReference.WithField("book", "图书不存在")
)
