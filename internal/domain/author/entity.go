package author

import (
	"time"

	"github.com/xiebiao/locallibrary/pkg/datefmt"
)

// Author 作者实体
// 设计说明:
// 1. 出生/去世日期可为空,用指针区分"未知"和零值
// 2. 展示字段(全名、生卒年、格式化日期)都是纯函数,显式接收记录,不挂在实体上做隐式计算
type Author struct {
	ID          string
	FirstName   string     // 名(必填,≤100字符)
	FamilyName  string     // 姓(必填,≤100字符)
	DateOfBirth *time.Time // 出生日期(可选)
	DateOfDeath *time.Time // 去世日期(可选)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// 字段长度上限
const (
	MaxFirstNameLen  = 100
	MaxFamilyNameLen = 100
)

// NewAuthor 创建作者(工厂方法)
func NewAuthor(firstName, familyName string, birth, death *time.Time) *Author {
	now := time.Now()
	return &Author{
		FirstName:   firstName,
		FamilyName:  familyName,
		DateOfBirth: birth,
		DateOfDeath: death,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Replace 整体替换可编辑字段(更新语义是全量替换,不是局部patch)
func (a *Author) Replace(src *Author) {
	a.FirstName = src.FirstName
	a.FamilyName = src.FamilyName
	a.DateOfBirth = src.DateOfBirth
	a.DateOfDeath = src.DateOfDeath
	a.UpdatedAt = time.Now()
}

// =========================================
// 展示字段(纯函数)
// =========================================

// 日期展示格式
const (
	mediumLayout = "Jan 2, 2006"
	isoLayout    = "2006-01-02"
)

// Name 全名,格式为 "family_name,first_name"
// 任一部分缺失时返回空串
func Name(a *Author) string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + "," + a.FirstName
}

// Lifespan 生卒年区间,如 "Jan 2, 1920 - Mar 4, 1992"
// 缺失的一端留空
func Lifespan(a *Author) string {
	return formatDate(a.DateOfBirth, mediumLayout) + " - " + formatDate(a.DateOfDeath, mediumLayout)
}

// DateOfBirthFormatted 长格式出生日期,如 "January 2nd, 1920"
func DateOfBirthFormatted(a *Author) string {
	return longDate(a.DateOfBirth)
}

// DateOfDeathFormatted 长格式去世日期
func DateOfDeathFormatted(a *Author) string {
	return longDate(a.DateOfDeath)
}

// DateOfBirthISO 表单回填用的 yyyy-mm-dd
func DateOfBirthISO(a *Author) string {
	return formatDate(a.DateOfBirth, isoLayout)
}

// DateOfDeathISO 表单回填用的 yyyy-mm-dd
func DateOfDeathISO(a *Author) string {
	return formatDate(a.DateOfDeath, isoLayout)
}

func formatDate(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

func longDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return datefmt.Long(*t)
}
