package author

import (
	"context"
)

// Repository 作者仓储接口
// 由domain层定义,infrastructure层实现
type Repository interface {
	// Create 创建作者,由仓储分配ID
	Create(ctx context.Context, a *Author) error

	// FindByID 根据ID查找作者
	FindByID(ctx context.Context, id string) (*Author, error)

	// FindByIDs 批量查找,不存在的ID直接忽略(由调用方判断缺失)
	FindByIDs(ctx context.Context, ids []string) ([]*Author, error)

	// List 按条件查询,排序相同时按ID升序保证结果稳定
	List(ctx context.Context, params ListParams) ([]*Author, error)

	// Update 全量替换除ID以外的字段
	Update(ctx context.Context, a *Author) error

	// Count 统计数量
	Count(ctx context.Context) (int64, error)

	// DeleteUnreferenced 仅在没有任何图书引用该作者时删除
	// 检查与删除在存储层的同一条语句里完成
	// 返回 ErrAuthorNotFound 或 ErrAuthorReferenced
	DeleteUnreferenced(ctx context.Context, id string) error
}

// 可排序字段
const (
	SortByFamilyName  = "family_name"
	SortByFirstName   = "first_name"
	SortByDateOfBirth = "date_of_birth"
	SortByDateOfDeath = "date_of_death"
)

// ListParams 列表查询参数
type ListParams struct {
	SortBy string // 排序字段(为空则不保证顺序)
	Desc   bool   // 是否降序
}

// IsSortable 是否为允许的排序字段
func IsSortable(field string) bool {
	switch field {
	case SortByFamilyName, SortByFirstName, SortByDateOfBirth, SortByDateOfDeath:
		return true
	}
	return false
}
