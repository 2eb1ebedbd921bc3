package catalog

import (
	"context"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
	"github.com/xiebiao/locallibrary/pkg/fanout"
)

// ListAuthors 作者列表,默认按姓氏升序
func (s *Service) ListAuthors(ctx context.Context, q ListQuery) ([]*author.Author, error) {
	params := author.ListParams{SortBy: author.SortByFamilyName, Desc: q.Desc}
	if q.SortBy != "" {
		if !author.IsSortable(q.SortBy) {
			return nil, apperrors.ErrInvalidParams.WithField("sort", "不支持的排序字段: "+q.SortBy)
		}
		params.SortBy = q.SortBy
	}
	return call(ctx, s, "author.list", func(ctx context.Context) ([]*author.Author, error) {
		return s.authors.List(ctx, params)
	})
}

// AuthorDetail 作者详情:作者 + 名下图书(并发读取)
func (s *Service) AuthorDetail(ctx context.Context, id string) (*AuthorDetail, error) {
	return call(ctx, s, "author.detail", func(ctx context.Context) (*AuthorDetail, error) {
		return s.authorWithBooks(ctx, id)
	})
}

// CreateAuthor 创建作者
func (s *Service) CreateAuthor(ctx context.Context, in AuthorInput) (*Saved[*author.Author], error) {
	if err := s.checkAuthor(&in); err != nil {
		return nil, err
	}
	a := author.NewAuthor(in.FirstName, in.FamilyName, in.DateOfBirth, in.DateOfDeath)

	err := s.run(ctx, "author.create", func(ctx context.Context) error {
		return s.authors.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, catalogdomain.KindAuthor, catalogdomain.ActionCreated, a.ID)
	return &Saved[*author.Author]{Record: a, Path: catalogdomain.Path(catalogdomain.KindAuthor, a.ID)}, nil
}

// AuthorUpdateForm 更新表单:当前作者
func (s *Service) AuthorUpdateForm(ctx context.Context, id string) (*author.Author, error) {
	return call(ctx, s, "author.update_form", func(ctx context.Context) (*author.Author, error) {
		return s.authors.FindByID(ctx, id)
	})
}

// UpdateAuthor 全量更新作者
// 未提供的可选字段(生卒日期)被清空,不保留旧值
func (s *Service) UpdateAuthor(ctx context.Context, id string, in AuthorInput) (*Saved[*author.Author], error) {
	if err := s.checkAuthor(&in); err != nil {
		return nil, err
	}
	src := author.NewAuthor(in.FirstName, in.FamilyName, in.DateOfBirth, in.DateOfDeath)

	a, err := call(ctx, s, "author.update", func(ctx context.Context) (*author.Author, error) {
		var out *author.Author
		err := s.transaction(ctx, func(ctx context.Context) error {
			a, err := s.authors.FindByID(ctx, id)
			if err != nil {
				return err
			}
			a.Replace(src)
			if err := s.authors.Update(ctx, a); err != nil {
				return err
			}
			out = a
			return nil
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, catalogdomain.KindAuthor, catalogdomain.ActionUpdated, a.ID)
	return &Saved[*author.Author]{Record: a, Path: catalogdomain.Path(catalogdomain.KindAuthor, a.ID)}, nil
}

// AuthorDeleteForm 删除确认页:作者 + 阻止删除的图书
func (s *Service) AuthorDeleteForm(ctx context.Context, id string) (*AuthorDetail, error) {
	return call(ctx, s, "author.delete_form", func(ctx context.Context) (*AuthorDetail, error) {
		return s.authorWithBooks(ctx, id)
	})
}

// DeleteAuthor 删除作者,仍有图书引用时返回 Deleted=false 和这些图书
func (s *Service) DeleteAuthor(ctx context.Context, id string) (*Deletion[*book.Book], error) {
	out, err := call(ctx, s, "author.delete", func(ctx context.Context) (catalogdomain.Outcome[*book.Book], error) {
		return s.guard.DeleteAuthor(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if !out.Deleted {
		s.blocked(catalogdomain.KindAuthor, id, len(out.Blocking))
		return &Deletion[*book.Book]{Blocking: out.Blocking}, nil
	}

	s.afterWrite(ctx, catalogdomain.KindAuthor, catalogdomain.ActionDeleted, id)
	return &Deletion[*book.Book]{Deleted: true, Redirect: catalogdomain.ListPath(catalogdomain.KindAuthor)}, nil
}

func (s *Service) authorWithBooks(ctx context.Context, id string) (*AuthorDetail, error) {
	res, err := fanout.RunAll(ctx, map[string]fanout.Task{
		"author": func(ctx context.Context) (any, error) { return s.authors.FindByID(ctx, id) },
		"books":  func(ctx context.Context) (any, error) { return s.guard.AuthorDependents(ctx, id) },
	})
	if err != nil {
		return nil, err
	}
	return &AuthorDetail{
		Author: fanout.Get[*author.Author](res, "author"),
		Books:  fanout.Get[[]*book.Book](res, "books"),
	}, nil
}

func (s *Service) checkAuthor(in *AuthorInput) error {
	in.normalize()
	if err := s.check(in); err != nil {
		return err
	}
	if in.DateOfBirth != nil && in.DateOfDeath != nil && in.DateOfDeath.Before(*in.DateOfBirth) {
		return apperrors.Validation(map[string]string{"date_of_death": "不能早于出生日期"})
	}
	return nil
}
