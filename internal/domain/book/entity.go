package book

import (
	"sort"
	"time"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. AuthorID、GenreIDs只保存引用,展示时由catalog.Resolver解析
// 2. GenreIDs是集合语义,顺序无意义;入库前统一排序去重校验
// 3. 书目与类别的关联行属于Book聚合,随Book一起写入/删除
type Book struct {
	ID        string
	Title     string   // 书名(必填)
	AuthorID  string   // 作者引用(必填)
	Summary   string   // 简介(必填)
	ISBN      string   // ISBN(必填)
	GenreIDs  []string // 类别引用集合(可为空)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建图书(工厂方法)
// genreIDs需调用方先经过NormalizeGenreIDs
func NewBook(title, authorID, summary, isbn string, genreIDs []string) *Book {
	now := time.Now()
	return &Book{
		Title:     title,
		AuthorID:  authorID,
		Summary:   summary,
		ISBN:      isbn,
		GenreIDs:  genreIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Replace 全量替换(未提供的字段回到零值,不保留旧值)
func (b *Book) Replace(src *Book) {
	b.Title = src.Title
	b.AuthorID = src.AuthorID
	b.Summary = src.Summary
	b.ISBN = src.ISBN
	b.GenreIDs = append([]string(nil), src.GenreIDs...)
	b.UpdatedAt = time.Now()
}

// HasGenre 是否属于指定类别(按ID值比较)
func (b *Book) HasGenre(genreID string) bool {
	for _, id := range b.GenreIDs {
		if id == genreID {
			return true
		}
	}
	return false
}

// NormalizeGenreIDs 校验类别引用是一个集合
// 空白元素或重复元素都视为非法输入;返回排序后的副本
func NormalizeGenreIDs(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, ErrInvalidGenreSet.WithField("genre", "类别ID不能为空")
		}
		if _, dup := seen[id]; dup {
			return nil, ErrInvalidGenreSet.WithField("genre", "类别ID重复: "+id)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
