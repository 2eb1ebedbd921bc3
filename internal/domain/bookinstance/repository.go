package bookinstance

import (
	"context"
)

// Repository 馆藏副本仓储接口
type Repository interface {
	// Create 创建副本;引用的图书不存在时返回 ErrBookMissing
	Create(ctx context.Context, i *BookInstance) error

	FindByID(ctx context.Context, id string) (*BookInstance, error)

	// List 按图书/状态过滤
	List(ctx context.Context, params ListParams) ([]*BookInstance, error)

	// Update 全量替换
	Update(ctx context.Context, i *BookInstance) error

	Count(ctx context.Context, filter Filter) (int64, error)

	// Delete 无条件删除(副本没有下游依赖)
	Delete(ctx context.Context, id string) error
}

// Filter 等值过滤条件
type Filter struct {
	BookID string
	Status Status
}

// 可排序字段
const (
	SortByDueBack = "due_back"
	SortByStatus  = "status"
	SortByImprint = "imprint"
)

// ListParams 列表查询参数
type ListParams struct {
	Filter Filter
	SortBy string
	Desc   bool
}

// IsSortable 是否为允许的排序字段
func IsSortable(field string) bool {
	switch field {
	case SortByDueBack, SortByStatus, SortByImprint:
		return true
	}
	return false
}
