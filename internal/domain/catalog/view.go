package catalog

import (
	"sort"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
)

// BookView 解析后的图书:作者和类别已内联
type BookView struct {
	Book   *book.Book
	Author *author.Author
	Genres []*genre.Genre // 按名称排序
}

// InstanceView 解析后的馆藏副本
type InstanceView struct {
	Instance *bookinstance.BookInstance
	Book     *book.Book
}

// GenreOption 表单中的类别复选框
type GenreOption struct {
	Genre   *genre.Genre
	Checked bool
}

// MarkSelected 标记已选中的类别
// 按ID的值比较,selected里出现几次都只算一次
func MarkSelected(genres []*genre.Genre, selected []string) []GenreOption {
	set := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		set[id] = struct{}{}
	}

	opts := make([]GenreOption, len(genres))
	for i, g := range genres {
		_, ok := set[g.ID]
		opts[i] = GenreOption{Genre: g, Checked: ok}
	}
	return opts
}

func sortGenres(gs []*genre.Genre) {
	sort.SliceStable(gs, func(i, j int) bool {
		if gs[i].Name != gs[j].Name {
			return gs[i].Name < gs[j].Name
		}
		return gs[i].ID < gs[j].ID
	})
}

// Summary 首页统计
type Summary struct {
	BookCount              int64 `json:"book_count"`
	BookInstanceCount      int64 `json:"book_instance_count"`
	BookInstanceAvailCount int64 `json:"book_instance_available_count"`
	AuthorCount            int64 `json:"author_count"`
	GenreCount             int64 `json:"genre_count"`
}
