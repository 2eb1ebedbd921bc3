package catalog

import (
	"fmt"
)

// Kind 实体类型
type Kind string

const (
	KindAuthor       Kind = "author"
	KindGenre        Kind = "genre"
	KindBook         Kind = "book"
	KindBookInstance Kind = "bookinstance"
)

// ParseKind 解析实体类型
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindAuthor, KindGenre, KindBook, KindBookInstance:
		return k, nil
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// PathPrefix 所有规范路径的公共前缀
const PathPrefix = "/catalog"

// Path 实体的规范路径 /catalog/<kind>/<id>,创建/更新后作为跳转目标
func Path(kind Kind, id string) string {
	return PathPrefix + "/" + string(kind) + "/" + id
}

// ListPath 实体列表页路径,如 /catalog/authors
func ListPath(kind Kind) string {
	return PathPrefix + "/" + string(kind) + "s"
}
