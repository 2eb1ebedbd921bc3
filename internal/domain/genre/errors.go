package genre

import (
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

var (
	// ErrGenreNotFound 类别不存在
	ErrGenreNotFound = apperrors.New(apperrors.ErrCodeGenreNotFound, "类别不存在")

	// ErrGenreReferenced 仍有图书属于该类别
	ErrGenreReferenced = apperrors.New(apperrors.ErrCodeReferenced, "该类别下仍有图书,无法删除")

	// ErrNameDuplicate 改名时与其他类别重名
	ErrNameDuplicate = apperrors.New(apperrors.ErrCodeDuplicateName, "类别名称已存在")
)
