package dto

import (
	appcatalog "github.com/xiebiao/locallibrary/internal/application/catalog"
	"github.com/xiebiao/locallibrary/internal/domain/author"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
)

// AuthorRequest 创建/更新作者请求
// 名字只允许字母和数字,日期格式为 yyyy-mm-dd
type AuthorRequest struct {
	FirstName   string `json:"first_name" binding:"required,max=100,alphanum" example:"Patrick"`
	FamilyName  string `json:"family_name" binding:"required,max=100,alphanum" example:"Rothfuss"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02" example:"1973-06-06"`
	DateOfDeath string `json:"date_of_death" binding:"omitempty,datetime=2006-01-02" example:""`
}

// ToInput 转换为应用层输入
func (r *AuthorRequest) ToInput() appcatalog.AuthorInput {
	return appcatalog.AuthorInput{
		FirstName:   r.FirstName,
		FamilyName:  r.FamilyName,
		DateOfBirth: ParseDate(r.DateOfBirth),
		DateOfDeath: ParseDate(r.DateOfDeath),
	}
}

// AuthorResponse 作者响应(带展示字段)
type AuthorResponse struct {
	ID                   string `json:"id"`
	FirstName            string `json:"first_name" example:"Patrick"`
	FamilyName           string `json:"family_name" example:"Rothfuss"`
	Name                 string `json:"name" example:"Rothfuss,Patrick"`
	DateOfBirth          string `json:"date_of_birth,omitempty" example:"1973-06-06"`
	DateOfDeath          string `json:"date_of_death,omitempty"`
	DateOfBirthFormatted string `json:"date_of_birth_formatted,omitempty" example:"June 6th, 1973"`
	DateOfDeathFormatted string `json:"date_of_death_formatted,omitempty"`
	Lifespan             string `json:"lifespan" example:"Jun 6, 1973 - "`
	URL                  string `json:"url" example:"/catalog/author/0b6f1a52-3c3e-4a7a-9f0e-6b1f3c1d2e4f"`
}

// ToAuthorResponse 作者实体 → 响应
func ToAuthorResponse(a *author.Author) *AuthorResponse {
	if a == nil {
		return nil
	}
	return &AuthorResponse{
		ID:                   a.ID,
		FirstName:            a.FirstName,
		FamilyName:           a.FamilyName,
		Name:                 author.Name(a),
		DateOfBirth:          author.DateOfBirthISO(a),
		DateOfDeath:          author.DateOfDeathISO(a),
		DateOfBirthFormatted: author.DateOfBirthFormatted(a),
		DateOfDeathFormatted: author.DateOfDeathFormatted(a),
		Lifespan:             author.Lifespan(a),
		URL:                  catalogdomain.Path(catalogdomain.KindAuthor, a.ID),
	}
}

// ToAuthorResponses 批量转换
func ToAuthorResponses(authors []*author.Author) []*AuthorResponse {
	out := make([]*AuthorResponse, len(authors))
	for i, a := range authors {
		out[i] = ToAuthorResponse(a)
	}
	return out
}

// AuthorDetailResponse 作者详情/删除确认页
type AuthorDetailResponse struct {
	Author *AuthorResponse `json:"author"`
	Books  []*BookResponse `json:"books"`
}

// ToAuthorDetailResponse 转换作者详情
func ToAuthorDetailResponse(d *appcatalog.AuthorDetail) *AuthorDetailResponse {
	return &AuthorDetailResponse{
		Author: ToAuthorResponse(d.Author),
		Books:  ToBookResponses(d.Books),
	}
}
