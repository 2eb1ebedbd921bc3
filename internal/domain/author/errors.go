package author

import (
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// 作者领域错误定义
var (
	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")

	// ErrAuthorReferenced 作者仍有图书,不能删除
	ErrAuthorReferenced = apperrors.New(apperrors.ErrCodeReferenced, "该作者仍有图书,无法删除")
)
