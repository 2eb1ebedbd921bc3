package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// 只实现用到的方法,其余方法调用会panic

type fakeAuthors struct {
	author.Repository
	byID      map[string]*author.Author
	deleteErr error
}

func (f *fakeAuthors) FindByID(_ context.Context, id string) (*author.Author, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, author.ErrAuthorNotFound
}

func (f *fakeAuthors) FindByIDs(_ context.Context, ids []string) ([]*author.Author, error) {
	var out []*author.Author
	for _, id := range ids {
		if a, ok := f.byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAuthors) DeleteUnreferenced(_ context.Context, id string) error {
	return f.deleteErr
}

type fakeGenres struct {
	genre.Repository
	byID map[string]*genre.Genre
}

func (f *fakeGenres) FindByIDs(_ context.Context, ids []string) ([]*genre.Genre, error) {
	var out []*genre.Genre
	for _, id := range ids {
		if g, ok := f.byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeBooks struct {
	book.Repository
	byID map[string]*book.Book
	list []*book.Book
}

func (f *fakeBooks) FindByIDs(_ context.Context, ids []string) ([]*book.Book, error) {
	var out []*book.Book
	for _, id := range ids {
		if b, ok := f.byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBooks) List(_ context.Context, params book.ListParams) ([]*book.Book, error) {
	var out []*book.Book
	for _, b := range f.list {
		if params.Filter.AuthorID != "" && b.AuthorID != params.Filter.AuthorID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type fakeInstances struct {
	bookinstance.Repository
	byID map[string]*bookinstance.BookInstance
}

func (f *fakeInstances) FindByID(_ context.Context, id string) (*bookinstance.BookInstance, error) {
	if inst, ok := f.byID[id]; ok {
		return inst, nil
	}
	return nil, bookinstance.ErrInstanceNotFound
}

func TestResolveBooks(t *testing.T) {
	authors := &fakeAuthors{byID: map[string]*author.Author{"a1": {ID: "a1", FamilyName: "Herbert"}}}
	genres := &fakeGenres{byID: map[string]*genre.Genre{
		"g1": {ID: "g1", Name: "Science Fiction"},
		"g2": {ID: "g2", Name: "Fantasy"},
	}}
	r := NewResolver(authors, genres, &fakeBooks{})

	books := []*book.Book{
		{ID: "b2", AuthorID: "a1", GenreIDs: []string{"g1", "g2"}},
		{ID: "b1", AuthorID: "a1"},
	}
	views, err := r.ResolveBooks(context.Background(), books)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// 保持入参顺序,类别按名称排序
	assert.Equal(t, "b2", views[0].Book.ID)
	assert.Equal(t, "Herbert", views[0].Author.FamilyName)
	require.Len(t, views[0].Genres, 2)
	assert.Equal(t, "Fantasy", views[0].Genres[0].Name)
	assert.Empty(t, views[1].Genres)
}

func TestResolveBooks_Dangling(t *testing.T) {
	authors := &fakeAuthors{byID: map[string]*author.Author{}}
	genres := &fakeGenres{byID: map[string]*genre.Genre{"g1": {ID: "g1"}}}
	r := NewResolver(authors, genres, &fakeBooks{})

	_, err := r.ResolveBook(context.Background(), &book.Book{ID: "b1", AuthorID: "gone", GenreIDs: []string{"g1", "g9"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsDanglingReference(err))

	fields := apperrors.GetAppError(err).Fields
	assert.Equal(t, "gone", fields["author"])
	assert.Equal(t, "g9", fields["genre"])
}

func TestResolveInstances(t *testing.T) {
	books := &fakeBooks{byID: map[string]*book.Book{"b1": {ID: "b1", Title: "Dune"}}}
	r := NewResolver(&fakeAuthors{}, &fakeGenres{}, books)

	views, err := r.ResolveInstances(context.Background(), []*bookinstance.BookInstance{
		{ID: "i1", BookID: "b1"},
		{ID: "i2", BookID: "b1"},
	})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Dune", views[1].Book.Title)

	_, err = r.ResolveInstance(context.Background(), &bookinstance.BookInstance{ID: "i3", BookID: "b9"})
	require.Error(t, err)
	assert.Equal(t, "b9", apperrors.GetAppError(err).Fields["book"])

	empty, err := r.ResolveInstances(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGuard_DeleteAuthor(t *testing.T) {
	b := &book.Book{ID: "b1", AuthorID: "a1", Title: "Dune"}

	t.Run("允许删除", func(t *testing.T) {
		g := NewGuard(&fakeAuthors{}, &fakeGenres{}, &fakeBooks{}, &fakeInstances{})
		out, err := g.DeleteAuthor(context.Background(), "a1")
		require.NoError(t, err)
		assert.True(t, out.Deleted)
	})

	t.Run("被图书阻止", func(t *testing.T) {
		authors := &fakeAuthors{deleteErr: author.ErrAuthorReferenced}
		g := NewGuard(authors, &fakeGenres{}, &fakeBooks{list: []*book.Book{b}}, &fakeInstances{})
		out, err := g.DeleteAuthor(context.Background(), "a1")
		require.NoError(t, err)
		assert.False(t, out.Deleted)
		assert.Equal(t, []*book.Book{b}, out.Blocking)
	})

	t.Run("不存在", func(t *testing.T) {
		authors := &fakeAuthors{deleteErr: author.ErrAuthorNotFound}
		g := NewGuard(authors, &fakeGenres{}, &fakeBooks{}, &fakeInstances{})
		_, err := g.DeleteAuthor(context.Background(), "a1")
		assert.True(t, errors.Is(err, author.ErrAuthorNotFound))
	})
}

func TestGuard_CanDelete(t *testing.T) {
	authors := &fakeAuthors{byID: map[string]*author.Author{"a1": {ID: "a1"}, "a2": {ID: "a2"}}}
	books := &fakeBooks{list: []*book.Book{{ID: "b1", AuthorID: "a1"}}}
	instances := &fakeInstances{byID: map[string]*bookinstance.BookInstance{"i1": {ID: "i1"}}}
	g := NewGuard(authors, &fakeGenres{}, books, instances)
	ctx := context.Background()

	d, err := g.CanDelete(ctx, KindAuthor, "a1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, []Ref{{Kind: KindBook, ID: "b1", Path: "/catalog/book/b1"}}, d.Blocking)

	d, err = g.CanDelete(ctx, KindAuthor, "a2")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = g.CanDelete(ctx, KindBookInstance, "i1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	_, err = g.CanDelete(ctx, KindAuthor, "missing")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = g.CanDelete(ctx, Kind("shelf"), "x")
	assert.True(t, apperrors.IsValidation(err))
}

func TestMarkSelected(t *testing.T) {
	genres := []*genre.Genre{{ID: "g1"}, {ID: "g2"}, {ID: "g3"}}

	// 按ID的值比较,不是指针
	selected := []string{string([]byte("g2")), "g3", "g3"}
	opts := MarkSelected(genres, selected)

	require.Len(t, opts, 3)
	assert.False(t, opts[0].Checked)
	assert.True(t, opts[1].Checked)
	assert.True(t, opts[2].Checked)
}

func TestKindPaths(t *testing.T) {
	k, err := ParseKind("bookinstance")
	require.NoError(t, err)
	assert.Equal(t, "/catalog/bookinstance/i1", Path(k, "i1"))
	assert.Equal(t, "/catalog/bookinstances", ListPath(k))

	_, err = ParseKind("shelf")
	assert.Error(t, err)
}

func TestEvent(t *testing.T) {
	e := NewEvent(KindGenre, ActionUpdated, "g1")
	assert.Equal(t, "catalog.genre.updated", e.RoutingKey())
	assert.Equal(t, "/catalog/genre/g1", e.Path)

	d := NewEvent(KindGenre, ActionDeleted, "g1")
	assert.Empty(t, d.Path)
}
