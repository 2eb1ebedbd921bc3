package catalog

import (
	"context"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
	"github.com/xiebiao/locallibrary/pkg/fanout"
)

// ListBooks 图书列表(带作者),默认按书名升序
func (s *Service) ListBooks(ctx context.Context, q ListQuery) ([]*catalogdomain.BookView, error) {
	params := book.ListParams{SortBy: book.SortByTitle, Desc: q.Desc}
	if q.SortBy != "" {
		if !book.IsSortable(q.SortBy) {
			return nil, apperrors.ErrInvalidParams.WithField("sort", "不支持的排序字段: "+q.SortBy)
		}
		params.SortBy = q.SortBy
	}
	return call(ctx, s, "book.list", func(ctx context.Context) ([]*catalogdomain.BookView, error) {
		books, err := s.books.List(ctx, params)
		if err != nil {
			return nil, err
		}
		return s.resolver.ResolveBooks(ctx, books)
	})
}

// BookDetail 图书详情:解析后的图书 + 馆藏副本
func (s *Service) BookDetail(ctx context.Context, id string) (*BookDetail, error) {
	return call(ctx, s, "book.detail", func(ctx context.Context) (*BookDetail, error) {
		return s.bookWithInstances(ctx, id)
	})
}

// BookCreateForm 创建表单:所有作者和类别
func (s *Service) BookCreateForm(ctx context.Context) (*BookForm, error) {
	return call(ctx, s, "book.create_form", func(ctx context.Context) (*BookForm, error) {
		res, err := fanout.RunAll(ctx, map[string]fanout.Task{
			"authors": s.allAuthors,
			"genres":  s.allGenres,
		})
		if err != nil {
			return nil, err
		}
		return &BookForm{
			Authors: fanout.Get[[]*author.Author](res, "authors"),
			Genres:  catalogdomain.MarkSelected(fanout.Get[[]*genre.Genre](res, "genres"), nil),
		}, nil
	})
}

// CreateBook 创建图书
// 作者和类别在同一事务内校验,不存在时返回带字段的校验错误
func (s *Service) CreateBook(ctx context.Context, in BookInput) (*Saved[*book.Book], error) {
	genreIDs, err := s.checkBook(&in)
	if err != nil {
		return nil, err
	}
	b := book.NewBook(in.Title, in.AuthorID, in.Summary, in.ISBN, genreIDs)

	err = s.run(ctx, "book.create", func(ctx context.Context) error {
		return s.books.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, catalogdomain.KindBook, catalogdomain.ActionCreated, b.ID)
	return &Saved[*book.Book]{Record: b, Path: catalogdomain.Path(catalogdomain.KindBook, b.ID)}, nil
}

// BookUpdateForm 更新表单:当前图书 + 所有作者 + 所有类别(已选中的打勾)
func (s *Service) BookUpdateForm(ctx context.Context, id string) (*BookForm, error) {
	return call(ctx, s, "book.update_form", func(ctx context.Context) (*BookForm, error) {
		res, err := fanout.RunAll(ctx, map[string]fanout.Task{
			"book":    func(ctx context.Context) (any, error) { return s.books.FindByID(ctx, id) },
			"authors": s.allAuthors,
			"genres":  s.allGenres,
		})
		if err != nil {
			return nil, err
		}
		b := fanout.Get[*book.Book](res, "book")
		return &BookForm{
			Book:    b,
			Authors: fanout.Get[[]*author.Author](res, "authors"),
			Genres:  catalogdomain.MarkSelected(fanout.Get[[]*genre.Genre](res, "genres"), b.GenreIDs),
		}, nil
	})
}

// UpdateBook 全量更新图书,类别集合整体替换
func (s *Service) UpdateBook(ctx context.Context, id string, in BookInput) (*Saved[*book.Book], error) {
	genreIDs, err := s.checkBook(&in)
	if err != nil {
		return nil, err
	}
	src := book.NewBook(in.Title, in.AuthorID, in.Summary, in.ISBN, genreIDs)

	b, err := call(ctx, s, "book.update", func(ctx context.Context) (*book.Book, error) {
		var out *book.Book
		err := s.transaction(ctx, func(ctx context.Context) error {
			b, err := s.books.FindByID(ctx, id)
			if err != nil {
				return err
			}
			b.Replace(src)
			if err := s.books.Update(ctx, b); err != nil {
				return err
			}
			out = b
			return nil
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, catalogdomain.KindBook, catalogdomain.ActionUpdated, b.ID)
	return &Saved[*book.Book]{Record: b, Path: catalogdomain.Path(catalogdomain.KindBook, b.ID)}, nil
}

// BookDeleteForm 删除确认页:图书 + 阻止删除的馆藏副本
func (s *Service) BookDeleteForm(ctx context.Context, id string) (*BookDetail, error) {
	return call(ctx, s, "book.delete_form", func(ctx context.Context) (*BookDetail, error) {
		return s.bookWithInstances(ctx, id)
	})
}

// DeleteBook 删除图书,仍有馆藏副本时返回这些副本
func (s *Service) DeleteBook(ctx context.Context, id string) (*Deletion[*bookinstance.BookInstance], error) {
	out, err := call(ctx, s, "book.delete", func(ctx context.Context) (catalogdomain.Outcome[*bookinstance.BookInstance], error) {
		return s.guard.DeleteBook(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if !out.Deleted {
		s.blocked(catalogdomain.KindBook, id, len(out.Blocking))
		return &Deletion[*bookinstance.BookInstance]{Blocking: out.Blocking}, nil
	}

	s.afterWrite(ctx, catalogdomain.KindBook, catalogdomain.ActionDeleted, id)
	return &Deletion[*bookinstance.BookInstance]{Deleted: true, Redirect: catalogdomain.ListPath(catalogdomain.KindBook)}, nil
}

func (s *Service) bookWithInstances(ctx context.Context, id string) (*BookDetail, error) {
	res, err := fanout.RunAll(ctx, map[string]fanout.Task{
		"book": func(ctx context.Context) (any, error) {
			b, err := s.books.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return s.resolver.ResolveBook(ctx, b)
		},
		"instances": func(ctx context.Context) (any, error) { return s.guard.BookDependents(ctx, id) },
	})
	if err != nil {
		return nil, err
	}
	return &BookDetail{
		Book:      fanout.Get[*catalogdomain.BookView](res, "book"),
		Instances: fanout.Get[[]*bookinstance.BookInstance](res, "instances"),
	}, nil
}

func (s *Service) allAuthors(ctx context.Context) (any, error) {
	return s.authors.List(ctx, author.ListParams{SortBy: author.SortByFamilyName})
}

func (s *Service) allGenres(ctx context.Context) (any, error) {
	return s.genres.List(ctx, genre.ListParams{SortBy: genre.SortByName})
}

// checkBook 校验字段并确认类别引用是集合
func (s *Service) checkBook(in *BookInput) ([]string, error) {
	in.normalize()
	if err := s.check(in); err != nil {
		return nil, err
	}
	return book.NormalizeGenreIDs(in.GenreIDs)
}
