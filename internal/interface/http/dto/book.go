package dto

import (
	appcatalog "github.com/xiebiao/locallibrary/internal/application/catalog"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
)

// BookRequest 创建/更新图书请求
// genre可以是单个类别ID,也可以是ID数组
type BookRequest struct {
	Title   string    `json:"title" binding:"required" example:"The Name of the Wind"`
	Author  string    `json:"author" binding:"required" example:"0b6f1a52-3c3e-4a7a-9f0e-6b1f3c1d2e4f"`
	Summary string    `json:"summary" binding:"required" example:"I have stolen princesses back from sleeping barrow kings."`
	ISBN    string    `json:"isbn" binding:"required" example:"9781473211896"`
	Genre   StringSet `json:"genre" swaggertype:"array,string"`
}

// ToInput 转换为应用层输入
func (r *BookRequest) ToInput() appcatalog.BookInput {
	return appcatalog.BookInput{
		Title:    r.Title,
		AuthorID: r.Author,
		Summary:  r.Summary,
		ISBN:     r.ISBN,
		GenreIDs: r.Genre.Trimmed(),
	}
}

// BookResponse 图书响应(引用未解析)
type BookResponse struct {
	ID       string   `json:"id"`
	Title    string   `json:"title" example:"The Name of the Wind"`
	AuthorID string   `json:"author_id"`
	Summary  string   `json:"summary"`
	ISBN     string   `json:"isbn" example:"9781473211896"`
	GenreIDs []string `json:"genre_ids"`
	URL      string   `json:"url" example:"/catalog/book/0b6f1a52-3c3e-4a7a-9f0e-6b1f3c1d2e4f"`
}

// ToBookResponse 图书实体 → 响应
func ToBookResponse(b *book.Book) *BookResponse {
	if b == nil {
		return nil
	}
	genreIDs := b.GenreIDs
	if genreIDs == nil {
		genreIDs = []string{}
	}
	return &BookResponse{
		ID:       b.ID,
		Title:    b.Title,
		AuthorID: b.AuthorID,
		Summary:  b.Summary,
		ISBN:     b.ISBN,
		GenreIDs: genreIDs,
		URL:      catalogdomain.Path(catalogdomain.KindBook, b.ID),
	}
}

// ToBookResponses 批量转换
func ToBookResponses(books []*book.Book) []*BookResponse {
	out := make([]*BookResponse, len(books))
	for i, b := range books {
		out[i] = ToBookResponse(b)
	}
	return out
}

// BookViewResponse 图书响应(作者和类别已解析)
type BookViewResponse struct {
	*BookResponse
	Author *AuthorResponse  `json:"author"`
	Genres []*GenreResponse `json:"genres"`
}

// ToBookViewResponse 解析后的图书 → 响应
func ToBookViewResponse(v *catalogdomain.BookView) *BookViewResponse {
	if v == nil {
		return nil
	}
	return &BookViewResponse{
		BookResponse: ToBookResponse(v.Book),
		Author:       ToAuthorResponse(v.Author),
		Genres:       ToGenreResponses(v.Genres),
	}
}

// ToBookViewResponses 批量转换
func ToBookViewResponses(views []*catalogdomain.BookView) []*BookViewResponse {
	out := make([]*BookViewResponse, len(views))
	for i, v := range views {
		out[i] = ToBookViewResponse(v)
	}
	return out
}

// BookDetailResponse 图书详情/删除确认页
type BookDetailResponse struct {
	Book      *BookViewResponse   `json:"book"`
	Instances []*InstanceResponse `json:"instances"`
}

// ToBookDetailResponse 转换图书详情
func ToBookDetailResponse(d *appcatalog.BookDetail) *BookDetailResponse {
	return &BookDetailResponse{
		Book:      ToBookViewResponse(d.Book),
		Instances: ToInstanceResponses(d.Instances),
	}
}

// BookFormResponse 图书创建/更新表单的可选项
type BookFormResponse struct {
	Book    *BookResponse         `json:"book,omitempty"`
	Authors []*AuthorResponse     `json:"authors"`
	Genres  []GenreOptionResponse `json:"genres"`
}

// ToBookFormResponse 转换图书表单
func ToBookFormResponse(f *appcatalog.BookForm) *BookFormResponse {
	return &BookFormResponse{
		Book:    ToBookResponse(f.Book),
		Authors: ToAuthorResponses(f.Authors),
		Genres:  ToGenreOptions(f.Genres),
	}
}
