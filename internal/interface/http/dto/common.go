package dto

import (
	"encoding/json"
	"strings"
	"time"

	appcatalog "github.com/xiebiao/locallibrary/internal/application/catalog"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
)

// DateLayout 请求中日期字段的格式
const DateLayout = "2006-01-02"

// ListRequest 列表查询参数
// sort为空时使用各实体的默认排序,order=desc为降序
type ListRequest struct {
	Sort  string `form:"sort" binding:"omitempty,max=32" example:"family_name"`
	Order string `form:"order" binding:"omitempty,oneof=asc desc" example:"asc"`
}

// ToQuery 转换为应用层查询
func (r ListRequest) ToQuery() appcatalog.ListQuery {
	return appcatalog.ListQuery{SortBy: r.Sort, Desc: r.Order == "desc"}
}

// ParseDate 解析 yyyy-mm-dd,空串返回nil
// 格式已由binding的datetime校验过
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// StringSet 既接受单个字符串也接受字符串数组的JSON字段
// 表单里只勾选一个类别时客户端常常只发一个字符串
type StringSet []string

// UnmarshalJSON 实现json.Unmarshaler
func (s *StringSet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*s = StringSet{}
			return nil
		}
		*s = StringSet{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// Trimmed 去掉首尾空白
// 空元素和重复元素保留,由应用层判定为非法集合
func (s StringSet) Trimmed() []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

// RedirectResponse 写操作成功后的跳转目标
type RedirectResponse struct {
	ID       string `json:"id,omitempty" example:"0b6f1a52-3c3e-4a7a-9f0e-6b1f3c1d2e4f"`
	Redirect string `json:"redirect" example:"/catalog/author/0b6f1a52-3c3e-4a7a-9f0e-6b1f3c1d2e4f"`
}

// BlockedResponse 删除被阻止时返回的下游记录
type BlockedResponse[T any] struct {
	Blocking []T `json:"blocking"`
}

// RefResponse 跨类型的下游记录引用
type RefResponse struct {
	Kind string `json:"kind" example:"book"`
	ID   string `json:"id"`
	URL  string `json:"url" example:"/catalog/book/0b6f1a52-3c3e-4a7a-9f0e-6b1f3c1d2e4f"`
}

// DeletableResponse 只读的删除检查结果
type DeletableResponse struct {
	Allowed  bool          `json:"allowed"`
	Blocking []RefResponse `json:"blocking"`
}

// ToDeletableResponse 转换删除检查结果
func ToDeletableResponse(d catalogdomain.Decision[catalogdomain.Ref]) DeletableResponse {
	out := DeletableResponse{Allowed: d.Allowed, Blocking: make([]RefResponse, len(d.Blocking))}
	for i, ref := range d.Blocking {
		out.Blocking[i] = RefResponse{Kind: string(ref.Kind), ID: ref.ID, URL: ref.Path}
	}
	return out
}

// SummaryResponse 首页统计
type SummaryResponse struct {
	Title string `json:"title" example:"Local Library Home"`
	*catalogdomain.Summary
}
