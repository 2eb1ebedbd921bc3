package dto

import (
	appcatalog "github.com/xiebiao/locallibrary/internal/application/catalog"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
)

// InstanceRequest 创建/更新馆藏副本请求
// status为空时默认Maintenance,due_back为空时默认当前时间
type InstanceRequest struct {
	Book    string `json:"book" binding:"required" example:"0b6f1a52-3c3e-4a7a-9f0e-6b1f3c1d2e4f"`
	Imprint string `json:"imprint" binding:"required" example:"Gollancz, 2011."`
	Status  string `json:"status" binding:"omitempty,oneof=Available Maintenance Loaned Reserved" example:"Available"`
	DueBack string `json:"due_back" binding:"omitempty,datetime=2006-01-02" example:"2026-11-01"`
}

// ToInput 转换为应用层输入
func (r *InstanceRequest) ToInput() appcatalog.InstanceInput {
	return appcatalog.InstanceInput{
		BookID:  r.Book,
		Imprint: r.Imprint,
		Status:  bookinstance.Status(r.Status),
		DueBack: ParseDate(r.DueBack),
	}
}

// InstanceResponse 馆藏副本响应
type InstanceResponse struct {
	ID               string `json:"id"`
	BookID           string `json:"book_id"`
	Imprint          string `json:"imprint" example:"Gollancz, 2011."`
	Status           string `json:"status" example:"Available"`
	DueBack          string `json:"due_back" example:"2026-11-01"`
	DueBackFormatted string `json:"due_back_formatted" example:"November 1st, 2026"`
	URL              string `json:"url" example:"/catalog/bookinstance/0b6f1a52-3c3e-4a7a-9f0e-6b1f3c1d2e4f"`
}

// ToInstanceResponse 副本实体 → 响应
func ToInstanceResponse(i *bookinstance.BookInstance) *InstanceResponse {
	if i == nil {
		return nil
	}
	return &InstanceResponse{
		ID:               i.ID,
		BookID:           i.BookID,
		Imprint:          i.Imprint,
		Status:           string(i.Status),
		DueBack:          bookinstance.DueBackISO(i),
		DueBackFormatted: bookinstance.DueBackFormatted(i),
		URL:              catalogdomain.Path(catalogdomain.KindBookInstance, i.ID),
	}
}

// ToInstanceResponses 批量转换
func ToInstanceResponses(instances []*bookinstance.BookInstance) []*InstanceResponse {
	out := make([]*InstanceResponse, len(instances))
	for i, inst := range instances {
		out[i] = ToInstanceResponse(inst)
	}
	return out
}

// InstanceViewResponse 副本响应(图书已解析)
type InstanceViewResponse struct {
	*InstanceResponse
	Book *BookResponse `json:"book"`
}

// ToInstanceViewResponse 解析后的副本 → 响应
func ToInstanceViewResponse(v *catalogdomain.InstanceView) *InstanceViewResponse {
	if v == nil {
		return nil
	}
	return &InstanceViewResponse{
		InstanceResponse: ToInstanceResponse(v.Instance),
		Book:             ToBookResponse(v.Book),
	}
}

// ToInstanceViewResponses 批量转换
func ToInstanceViewResponses(views []*catalogdomain.InstanceView) []*InstanceViewResponse {
	out := make([]*InstanceViewResponse, len(views))
	for i, v := range views {
		out[i] = ToInstanceViewResponse(v)
	}
	return out
}

// InstanceFormResponse 副本创建/更新表单的可选项
type InstanceFormResponse struct {
	Instance *InstanceResponse `json:"instance,omitempty"`
	Books    []*BookResponse   `json:"books"`
	Statuses []string          `json:"statuses"`
}

// ToInstanceFormResponse 转换副本表单
func ToInstanceFormResponse(f *appcatalog.InstanceForm) *InstanceFormResponse {
	statuses := make([]string, len(f.Statuses))
	for i, s := range f.Statuses {
		statuses[i] = string(s)
	}
	return &InstanceFormResponse{
		Instance: ToInstanceResponse(f.Instance),
		Books:    ToBookResponses(f.Books),
		Statuses: statuses,
	}
}
