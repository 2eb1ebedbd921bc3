package dto

import (
	appcatalog "github.com/xiebiao/locallibrary/internal/application/catalog"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
)

// GenreRequest 创建/更新类别请求
type GenreRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"Fantasy"`
}

// ToInput 转换为应用层输入
func (r *GenreRequest) ToInput() appcatalog.GenreInput {
	return appcatalog.GenreInput{Name: r.Name}
}

// GenreResponse 类别响应
type GenreResponse struct {
	ID   string `json:"id"`
	Name string `json:"name" example:"Fantasy"`
	URL  string `json:"url" example:"/catalog/genre/0b6f1a52-3c3e-4a7a-9f0e-6b1f3c1d2e4f"`
}

// ToGenreResponse 类别实体 → 响应
func ToGenreResponse(g *genre.Genre) *GenreResponse {
	if g == nil {
		return nil
	}
	return &GenreResponse{
		ID:   g.ID,
		Name: g.Name,
		URL:  catalogdomain.Path(catalogdomain.KindGenre, g.ID),
	}
}

// ToGenreResponses 批量转换
func ToGenreResponses(genres []*genre.Genre) []*GenreResponse {
	out := make([]*GenreResponse, len(genres))
	for i, g := range genres {
		out[i] = ToGenreResponse(g)
	}
	return out
}

// GenreCreatedResponse 类别创建结果
// existed=true表示同名类别已存在,redirect指向已有记录
type GenreCreatedResponse struct {
	RedirectResponse
	Existed bool `json:"existed"`
}

// GenreDetailResponse 类别详情/删除确认页
type GenreDetailResponse struct {
	Genre *GenreResponse  `json:"genre"`
	Books []*BookResponse `json:"books"`
}

// ToGenreDetailResponse 转换类别详情
func ToGenreDetailResponse(d *appcatalog.GenreDetail) *GenreDetailResponse {
	return &GenreDetailResponse{
		Genre: ToGenreResponse(d.Genre),
		Books: ToBookResponses(d.Books),
	}
}

// GenreOptionResponse 表单里的类别勾选项
type GenreOptionResponse struct {
	*GenreResponse
	Checked bool `json:"checked"`
}

// ToGenreOptions 转换类别勾选项
func ToGenreOptions(opts []catalogdomain.GenreOption) []GenreOptionResponse {
	out := make([]GenreOptionResponse, len(opts))
	for i, o := range opts {
		out[i] = GenreOptionResponse{GenreResponse: ToGenreResponse(o.Genre), Checked: o.Checked}
	}
	return out
}
