package catalog

import (
	"context"

	"github.com/xiebiao/locallibrary/internal/domain/book"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
	"github.com/xiebiao/locallibrary/pkg/fanout"
)

// ListGenres 类别列表,默认按名称升序
func (s *Service) ListGenres(ctx context.Context, q ListQuery) ([]*genre.Genre, error) {
	params := genre.ListParams{SortBy: genre.SortByName, Desc: q.Desc}
	if q.SortBy != "" {
		if !genre.IsSortable(q.SortBy) {
			return nil, apperrors.ErrInvalidParams.WithField("sort", "不支持的排序字段: "+q.SortBy)
		}
		params.SortBy = q.SortBy
	}
	return call(ctx, s, "genre.list", func(ctx context.Context) ([]*genre.Genre, error) {
		return s.genres.List(ctx, params)
	})
}

// GenreDetail 类别详情:类别 + 该类别下的图书
func (s *Service) GenreDetail(ctx context.Context, id string) (*GenreDetail, error) {
	return call(ctx, s, "genre.detail", func(ctx context.Context) (*GenreDetail, error) {
		return s.genreWithBooks(ctx, id)
	})
}

// CreateGenre 按名称幂等创建
// 同名类别已存在时返回已有记录,Existed=true,不发布事件
func (s *Service) CreateGenre(ctx context.Context, in GenreInput) (*GenreSaved, error) {
	in.Name = genre.NormalizeName(in.Name)
	if err := s.check(&in); err != nil {
		return nil, err
	}
	g := genre.NewGenre(in.Name)

	existed, err := call(ctx, s, "genre.create", func(ctx context.Context) (bool, error) {
		return s.genres.Create(ctx, g)
	})
	if err != nil {
		return nil, err
	}

	if !existed {
		s.afterWrite(ctx, catalogdomain.KindGenre, catalogdomain.ActionCreated, g.ID)
	}
	return &GenreSaved{
		Saved:   Saved[*genre.Genre]{Record: g, Path: catalogdomain.Path(catalogdomain.KindGenre, g.ID)},
		Existed: existed,
	}, nil
}

// GenreUpdateForm 更新表单:当前类别
func (s *Service) GenreUpdateForm(ctx context.Context, id string) (*genre.Genre, error) {
	return call(ctx, s, "genre.update_form", func(ctx context.Context) (*genre.Genre, error) {
		return s.genres.FindByID(ctx, id)
	})
}

// UpdateGenre 重命名类别
// 新名称被其他类别占用时返回 ErrNameDuplicate
func (s *Service) UpdateGenre(ctx context.Context, id string, in GenreInput) (*Saved[*genre.Genre], error) {
	in.Name = genre.NormalizeName(in.Name)
	if err := s.check(&in); err != nil {
		return nil, err
	}

	g, err := call(ctx, s, "genre.update", func(ctx context.Context) (*genre.Genre, error) {
		var out *genre.Genre
		err := s.transaction(ctx, func(ctx context.Context) error {
			g, err := s.genres.FindByID(ctx, id)
			if err != nil {
				return err
			}
			g.Rename(in.Name)
			if err := s.genres.Update(ctx, g); err != nil {
				return err
			}
			out = g
			return nil
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, catalogdomain.KindGenre, catalogdomain.ActionUpdated, g.ID)
	return &Saved[*genre.Genre]{Record: g, Path: catalogdomain.Path(catalogdomain.KindGenre, g.ID)}, nil
}

// GenreDeleteForm 删除确认页:类别 + 阻止删除的图书
func (s *Service) GenreDeleteForm(ctx context.Context, id string) (*GenreDetail, error) {
	return call(ctx, s, "genre.delete_form", func(ctx context.Context) (*GenreDetail, error) {
		return s.genreWithBooks(ctx, id)
	})
}

// DeleteGenre 删除类别,仍有图书属于该类别时返回这些图书
func (s *Service) DeleteGenre(ctx context.Context, id string) (*Deletion[*book.Book], error) {
	out, err := call(ctx, s, "genre.delete", func(ctx context.Context) (catalogdomain.Outcome[*book.Book], error) {
		return s.guard.DeleteGenre(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if !out.Deleted {
		s.blocked(catalogdomain.KindGenre, id, len(out.Blocking))
		return &Deletion[*book.Book]{Blocking: out.Blocking}, nil
	}

	s.afterWrite(ctx, catalogdomain.KindGenre, catalogdomain.ActionDeleted, id)
	return &Deletion[*book.Book]{Deleted: true, Redirect: catalogdomain.ListPath(catalogdomain.KindGenre)}, nil
}

func (s *Service) genreWithBooks(ctx context.Context, id string) (*GenreDetail, error) {
	res, err := fanout.RunAll(ctx, map[string]fanout.Task{
		"genre": func(ctx context.Context) (any, error) { return s.genres.FindByID(ctx, id) },
		"books": func(ctx context.Context) (any, error) { return s.guard.GenreDependents(ctx, id) },
	})
	if err != nil {
		return nil, err
	}
	return &GenreDetail{
		Genre: fanout.Get[*genre.Genre](res, "genre"),
		Books: fanout.Get[[]*book.Book](res, "books"),
	}, nil
}
