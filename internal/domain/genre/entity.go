package genre

import (
	"strings"
	"time"
)

// Genre 图书类别
// 名称唯一:同名创建返回已有记录(按名称幂等)
type Genre struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaxNameLen 名称长度上限
const MaxNameLen = 100

// NewGenre 创建类别,名称去掉首尾空白
func NewGenre(name string) *Genre {
	now := time.Now()
	return &Genre{
		Name:      NormalizeName(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename 全量替换名称
func (g *Genre) Rename(name string) {
	g.Name = NormalizeName(name)
	g.UpdatedAt = time.Now()
}

// NormalizeName 名称比较前的规范化
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
