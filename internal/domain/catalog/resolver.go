package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// Resolver 读路径上的引用解析
// 设计说明:
// 1. 引用丢失一律返回 ErrDanglingReference,不做静默置空
// 2. 列表解析先收集去重后的ID,再一次批量查询,避免N+1
type Resolver struct {
	authors author.Repository
	genres  genre.Repository
	books   book.Repository
}

// NewResolver 创建引用解析器
func NewResolver(authors author.Repository, genres genre.Repository, books book.Repository) *Resolver {
	return &Resolver{authors: authors, genres: genres, books: books}
}

// ResolveBook 解析单本图书的作者和类别
func (r *Resolver) ResolveBook(ctx context.Context, b *book.Book) (*BookView, error) {
	views, err := r.ResolveBooks(ctx, []*book.Book{b})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ResolveBooks 批量解析图书,保持入参顺序
func (r *Resolver) ResolveBooks(ctx context.Context, books []*book.Book) ([]*BookView, error) {
	if len(books) == 0 {
		return []*BookView{}, nil
	}

	authorIDs := make([]string, 0, len(books))
	var genreIDs []string
	for _, b := range books {
		authorIDs = append(authorIDs, b.AuthorID)
		genreIDs = append(genreIDs, b.GenreIDs...)
	}

	authors, err := r.authors.FindByIDs(ctx, unique(authorIDs))
	if err != nil {
		return nil, err
	}
	authorByID := make(map[string]*author.Author, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}

	genreByID := map[string]*genre.Genre{}
	if len(genreIDs) > 0 {
		genres, err := r.genres.FindByIDs(ctx, unique(genreIDs))
		if err != nil {
			return nil, err
		}
		for _, g := range genres {
			genreByID[g.ID] = g
		}
	}

	missing := map[string][]string{}
	views := make([]*BookView, len(books))
	for i, b := range books {
		v := &BookView{Book: b, Genres: make([]*genre.Genre, 0, len(b.GenreIDs))}
		if a, ok := authorByID[b.AuthorID]; ok {
			v.Author = a
		} else {
			missing["author"] = append(missing["author"], b.AuthorID)
		}
		for _, gid := range b.GenreIDs {
			if g, ok := genreByID[gid]; ok {
				v.Genres = append(v.Genres, g)
			} else {
				missing["genre"] = append(missing["genre"], gid)
			}
		}
		sortGenres(v.Genres)
		views[i] = v
	}

	if err := danglingError(missing); err != nil {
		return nil, err
	}
	return views, nil
}

// ResolveInstance 解析副本所属图书
func (r *Resolver) ResolveInstance(ctx context.Context, inst *bookinstance.BookInstance) (*InstanceView, error) {
	views, err := r.ResolveInstances(ctx, []*bookinstance.BookInstance{inst})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ResolveInstances 批量解析副本
func (r *Resolver) ResolveInstances(ctx context.Context, instances []*bookinstance.BookInstance) ([]*InstanceView, error) {
	if len(instances) == 0 {
		return []*InstanceView{}, nil
	}

	ids := make([]string, len(instances))
	for i, inst := range instances {
		ids[i] = inst.BookID
	}
	books, err := r.books.FindByIDs(ctx, unique(ids))
	if err != nil {
		return nil, err
	}
	bookByID := make(map[string]*book.Book, len(books))
	for _, b := range books {
		bookByID[b.ID] = b
	}

	missing := map[string][]string{}
	views := make([]*InstanceView, len(instances))
	for i, inst := range instances {
		b, ok := bookByID[inst.BookID]
		if !ok {
			missing["book"] = append(missing["book"], inst.BookID)
		}
		views[i] = &InstanceView{Instance: inst, Book: b}
	}

	if err := danglingError(missing); err != nil {
		return nil, err
	}
	return views, nil
}

// danglingError 汇总缺失的引用,字段 → 缺失ID列表
func danglingError(missing map[string][]string) error {
	if len(missing) == 0 {
		return nil
	}
	e := apperrors.ErrDanglingReference
	for field, ids := range missing {
		e = e.WithField(field, strings.Join(unique(ids), ","))
	}
	return e
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
