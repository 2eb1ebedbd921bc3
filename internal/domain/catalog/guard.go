package catalog

import (
	"context"
	"errors"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// Decision 删除前检查的结果
type Decision[D any] struct {
	Allowed  bool
	Blocking []D // 仍引用该记录的下游记录
}

// Outcome 删除结果: Deleted=true 表示已删除,否则Blocking列出阻止删除的记录
// 记录不存在通过error返回
type Outcome[D any] struct {
	Deleted  bool
	Blocking []D
}

// Ref 跨类型的下游记录引用,用于不关心具体类型的调用方
type Ref struct {
	Kind Kind
	ID   string
	Path string
}

// Guard 删除守卫
// 设计说明:
// 1. CanDeleteXxx是只读的建议性检查,用于展示删除确认页
// 2. DeleteXxx把"检查+删除"交给仓储的DeleteUnreferenced,在存储层一步完成,
//    检查和删除之间不会插入新的下游记录
// 3. 被阻止时再查一次下游记录用于展示,这一步不影响删除结论
type Guard struct {
	authors   author.Repository
	genres    genre.Repository
	books     book.Repository
	instances bookinstance.Repository
}

// NewGuard 创建删除守卫
func NewGuard(authors author.Repository, genres genre.Repository, books book.Repository, instances bookinstance.Repository) *Guard {
	return &Guard{authors: authors, genres: genres, books: books, instances: instances}
}

// CanDeleteAuthor 作者下没有图书时允许删除
func (g *Guard) CanDeleteAuthor(ctx context.Context, id string) (Decision[*book.Book], error) {
	if _, err := g.authors.FindByID(ctx, id); err != nil {
		return Decision[*book.Book]{}, err
	}
	deps, err := g.AuthorDependents(ctx, id)
	if err != nil {
		return Decision[*book.Book]{}, err
	}
	return Decision[*book.Book]{Allowed: len(deps) == 0, Blocking: deps}, nil
}

// DeleteAuthor 原子地检查并删除作者
func (g *Guard) DeleteAuthor(ctx context.Context, id string) (Outcome[*book.Book], error) {
	err := g.authors.DeleteUnreferenced(ctx, id)
	if err == nil {
		return Outcome[*book.Book]{Deleted: true}, nil
	}
	if !errors.Is(err, author.ErrAuthorReferenced) {
		return Outcome[*book.Book]{}, err
	}
	deps, err := g.AuthorDependents(ctx, id)
	if err != nil {
		return Outcome[*book.Book]{}, err
	}
	return Outcome[*book.Book]{Blocking: deps}, nil
}

// AuthorDependents 作者名下的图书
func (g *Guard) AuthorDependents(ctx context.Context, id string) ([]*book.Book, error) {
	return g.books.List(ctx, book.ListParams{
		Filter: book.Filter{AuthorID: id},
		SortBy: book.SortByTitle,
	})
}

// CanDeleteGenre 类别下没有图书时允许删除
func (g *Guard) CanDeleteGenre(ctx context.Context, id string) (Decision[*book.Book], error) {
	if _, err := g.genres.FindByID(ctx, id); err != nil {
		return Decision[*book.Book]{}, err
	}
	deps, err := g.GenreDependents(ctx, id)
	if err != nil {
		return Decision[*book.Book]{}, err
	}
	return Decision[*book.Book]{Allowed: len(deps) == 0, Blocking: deps}, nil
}

// DeleteGenre 原子地检查并删除类别
func (g *Guard) DeleteGenre(ctx context.Context, id string) (Outcome[*book.Book], error) {
	err := g.genres.DeleteUnreferenced(ctx, id)
	if err == nil {
		return Outcome[*book.Book]{Deleted: true}, nil
	}
	if !errors.Is(err, genre.ErrGenreReferenced) {
		return Outcome[*book.Book]{}, err
	}
	deps, err := g.GenreDependents(ctx, id)
	if err != nil {
		return Outcome[*book.Book]{}, err
	}
	return Outcome[*book.Book]{Blocking: deps}, nil
}

// GenreDependents 属于该类别的图书
func (g *Guard) GenreDependents(ctx context.Context, id string) ([]*book.Book, error) {
	return g.books.List(ctx, book.ListParams{
		Filter: book.Filter{GenreID: id},
		SortBy: book.SortByTitle,
	})
}

// CanDeleteBook 图书没有馆藏副本时允许删除
func (g *Guard) CanDeleteBook(ctx context.Context, id string) (Decision[*bookinstance.BookInstance], error) {
	if _, err := g.books.FindByID(ctx, id); err != nil {
		return Decision[*bookinstance.BookInstance]{}, err
	}
	deps, err := g.BookDependents(ctx, id)
	if err != nil {
		return Decision[*bookinstance.BookInstance]{}, err
	}
	return Decision[*bookinstance.BookInstance]{Allowed: len(deps) == 0, Blocking: deps}, nil
}

// DeleteBook 原子地检查并删除图书
func (g *Guard) DeleteBook(ctx context.Context, id string) (Outcome[*bookinstance.BookInstance], error) {
	err := g.books.DeleteUnreferenced(ctx, id)
	if err == nil {
		return Outcome[*bookinstance.BookInstance]{Deleted: true}, nil
	}
	if !errors.Is(err, book.ErrBookReferenced) {
		return Outcome[*bookinstance.BookInstance]{}, err
	}
	deps, err := g.BookDependents(ctx, id)
	if err != nil {
		return Outcome[*bookinstance.BookInstance]{}, err
	}
	return Outcome[*bookinstance.BookInstance]{Blocking: deps}, nil
}

// BookDependents 图书的馆藏副本
func (g *Guard) BookDependents(ctx context.Context, id string) ([]*bookinstance.BookInstance, error) {
	return g.instances.List(ctx, bookinstance.ListParams{
		Filter: bookinstance.Filter{BookID: id},
		SortBy: bookinstance.SortByDueBack,
	})
}

// CanDelete 按实体类型分派的删除检查
// 馆藏副本没有下游依赖,只要存在就允许删除
func (g *Guard) CanDelete(ctx context.Context, kind Kind, id string) (Decision[Ref], error) {
	switch kind {
	case KindAuthor:
		d, err := g.CanDeleteAuthor(ctx, id)
		return Decision[Ref]{Allowed: d.Allowed, Blocking: bookRefs(d.Blocking)}, err
	case KindGenre:
		d, err := g.CanDeleteGenre(ctx, id)
		return Decision[Ref]{Allowed: d.Allowed, Blocking: bookRefs(d.Blocking)}, err
	case KindBook:
		d, err := g.CanDeleteBook(ctx, id)
		return Decision[Ref]{Allowed: d.Allowed, Blocking: instanceRefs(d.Blocking)}, err
	case KindBookInstance:
		if _, err := g.instances.FindByID(ctx, id); err != nil {
			return Decision[Ref]{}, err
		}
		return Decision[Ref]{Allowed: true}, nil
	}
	return Decision[Ref]{}, apperrors.ErrInvalidParams.WithField("kind", "未知的实体类型: "+string(kind))
}

func bookRefs(books []*book.Book) []Ref {
	refs := make([]Ref, len(books))
	for i, b := range books {
		refs[i] = Ref{Kind: KindBook, ID: b.ID, Path: Path(KindBook, b.ID)}
	}
	return refs
}

func instanceRefs(instances []*bookinstance.BookInstance) []Ref {
	refs := make([]Ref, len(instances))
	for i, inst := range instances {
		refs[i] = Ref{Kind: KindBookInstance, ID: inst.ID, Path: Path(KindBookInstance, inst.ID)}
	}
	return refs
}
