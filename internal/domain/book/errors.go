package book

import (
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrBookReferenced 仍有馆藏副本引用该图书
	ErrBookReferenced = apperrors.New(apperrors.ErrCodeReferenced, "该图书仍有馆藏副本,无法删除")

	// ErrInvalidGenreSet 类别引用不是合法集合
	ErrInvalidGenreSet = apperrors.New(apperrors.ErrCodeInvalidParams, "类别参数不合法")

	// ErrAuthorMissing 引用的作者不存在
	ErrAuthorMissing = apperrors.ErrInvalidReference.WithField("author", "作者不存在")
)

// GenresMissing 引用的类别不存在
func GenresMissing(ids []string) error {
	msg := "类别不存在:"
	for i, id := range ids {
		if i > 0 {
			msg += ","
		}
		msg += " " + id
	}
	return apperrors.ErrInvalidReference.WithField("genre", msg)
}
