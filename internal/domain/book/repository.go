package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 写操作在同一事务内校验作者/类别存在,不存在返回校验错误
type Repository interface {
	// Create 创建图书(含类别关联)
	Create(ctx context.Context, b *Book) error

	// FindByID 根据ID查找图书(含类别ID)
	FindByID(ctx context.Context, id string) (*Book, error)

	// FindByIDs 批量查找,不存在的ID忽略
	FindByIDs(ctx context.Context, ids []string) ([]*Book, error)

	// List 按作者/类别过滤,排序相同时按ID升序
	List(ctx context.Context, params ListParams) ([]*Book, error)

	// Update 全量替换,类别关联一并替换
	Update(ctx context.Context, b *Book) error

	// Count 统计数量
	Count(ctx context.Context, filter Filter) (int64, error)

	// DeleteUnreferenced 仅在没有馆藏副本引用时删除,类别关联随之删除
	// 返回 ErrBookNotFound 或 ErrBookReferenced
	DeleteUnreferenced(ctx context.Context, id string) error
}

// Filter 等值过滤条件,空字段不参与过滤
type Filter struct {
	AuthorID string
	GenreID  string
}

// 可排序字段
const (
	SortByTitle = "title"
	SortByISBN  = "isbn"
)

// ListParams 列表查询参数
type ListParams struct {
	Filter Filter
	SortBy string
	Desc   bool
}

// IsSortable 是否为允许的排序字段
func IsSortable(field string) bool {
	return field == SortByTitle || field == SortByISBN
}
