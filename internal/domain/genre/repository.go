package genre

import (
	"context"
)

// Repository 类别仓储接口
type Repository interface {
	// Create 创建类别
	// 名称已存在时不新建,而是把已有记录回填到g,并返回 existed=true
	Create(ctx context.Context, g *Genre) (existed bool, err error)

	FindByID(ctx context.Context, id string) (*Genre, error)

	// FindByIDs 批量查找,不存在的ID忽略
	FindByIDs(ctx context.Context, ids []string) ([]*Genre, error)

	// FindByName 按名称精确查找
	FindByName(ctx context.Context, name string) (*Genre, error)

	// List 按名称等条件查询
	List(ctx context.Context, params ListParams) ([]*Genre, error)

	// Update 全量替换;名称与其他类别冲突时返回 ErrNameDuplicate
	Update(ctx context.Context, g *Genre) error

	Count(ctx context.Context) (int64, error)

	// DeleteUnreferenced 仅在没有图书属于该类别时删除
	// 返回 ErrGenreNotFound 或 ErrGenreReferenced
	DeleteUnreferenced(ctx context.Context, id string) error
}

// SortByName 唯一的可排序字段
const SortByName = "name"

// ListParams 列表查询参数
type ListParams struct {
	Name   string // 按名称等值过滤
	SortBy string
	Desc   bool
}

// IsSortable 是否为允许的排序字段
func IsSortable(field string) bool {
	return field == SortByName
}
