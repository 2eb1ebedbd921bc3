package bookinstance

import (
	"time"

	"github.com/xiebiao/locallibrary/pkg/datefmt"
)

// Status 馆藏副本状态
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusMaintenance Status = "Maintenance"
	StatusLoaned      Status = "Loaned"
	StatusReserved    Status = "Reserved"
)

// Statuses 所有合法状态(表单下拉框顺序)
var Statuses = []Status{StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved}

// IsValid 是否为合法状态
func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// BookInstance 馆藏副本(一本书的一个实体拷贝)
type BookInstance struct {
	ID        string
	BookID    string    // 图书引用(必填)
	Imprint   string    // 版本信息(必填)
	Status    Status    // 默认 Maintenance
	DueBack   time.Time // 应还日期,默认为创建时间
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBookInstance 创建副本
// status为空时取默认值Maintenance,dueBack为nil时取当前时间
func NewBookInstance(bookID, imprint string, status Status, dueBack *time.Time) *BookInstance {
	now := time.Now()
	inst := &BookInstance{
		BookID:    bookID,
		Imprint:   imprint,
		Status:    status,
		DueBack:   now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if inst.Status == "" {
		inst.Status = StatusMaintenance
	}
	if dueBack != nil {
		inst.DueBack = *dueBack
	}
	return inst
}

// Replace 全量替换
func (i *BookInstance) Replace(src *BookInstance) {
	i.BookID = src.BookID
	i.Imprint = src.Imprint
	i.Status = src.Status
	i.DueBack = src.DueBack
	i.UpdatedAt = time.Now()
}

// DueBackFormatted 长格式应还日期,如 "March 1st, 2026"
// 与作者的生卒日期展示格式一致
func DueBackFormatted(i *BookInstance) string {
	return datefmt.Long(i.DueBack)
}

// DueBackISO 表单回填用的 yyyy-mm-dd
func DueBackISO(i *BookInstance) string {
	if i.DueBack.IsZero() {
		return ""
	}
	return i.DueBack.Format("2006-01-02")
}
