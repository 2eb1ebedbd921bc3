package catalog

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// =========================================
// 输入
// =========================================

// ListQuery 列表排序参数,SortBy为空时使用各实体的默认排序
type ListQuery struct {
	SortBy string
	Desc   bool
}

// AuthorInput 作者写入数据
type AuthorInput struct {
	FirstName   string     `json:"first_name" validate:"required,max=100"`
	FamilyName  string     `json:"family_name" validate:"required,max=100"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death"`
}

// GenreInput 类别写入数据
type GenreInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// BookInput 图书写入数据
// GenreIDs必须是集合(无空白、无重复),由HTTP层负责把单值/多值统一成切片
type BookInput struct {
	Title    string   `json:"title" validate:"required"`
	AuthorID string   `json:"author" validate:"required"`
	Summary  string   `json:"summary" validate:"required"`
	ISBN     string   `json:"isbn" validate:"required"`
	GenreIDs []string `json:"genre"`
}

// InstanceInput 馆藏副本写入数据
// Status为空时取默认值Maintenance,DueBack为nil时取当前时间
type InstanceInput struct {
	BookID  string              `json:"book" validate:"required"`
	Imprint string              `json:"imprint" validate:"required"`
	Status  bookinstance.Status `json:"status" validate:"omitempty,oneof=Available Maintenance Loaned Reserved"`
	DueBack *time.Time          `json:"due_back"`
}

func (in *AuthorInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.FamilyName = strings.TrimSpace(in.FamilyName)
}

func (in *BookInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.AuthorID = strings.TrimSpace(in.AuthorID)
	in.Summary = strings.TrimSpace(in.Summary)
	in.ISBN = strings.TrimSpace(in.ISBN)
}

func (in *InstanceInput) normalize() {
	in.BookID = strings.TrimSpace(in.BookID)
	in.Imprint = strings.TrimSpace(in.Imprint)
}

// =========================================
// 输出
// =========================================

// Saved 创建/更新的结果,Path为跳转目标
type Saved[T any] struct {
	Record T
	Path   string
}

// GenreSaved 类别创建结果;Existed=true表示同名类别已存在,返回的是已有记录
type GenreSaved struct {
	Saved[*genre.Genre]
	Existed bool
}

// Deletion 删除结果
// Deleted=false时Blocking列出仍引用该记录的下游记录
type Deletion[D any] struct {
	Deleted  bool
	Blocking []D
	Redirect string // 删除成功后跳转的列表页
}

// AuthorDetail 作者详情/删除确认页
type AuthorDetail struct {
	Author *author.Author
	Books  []*book.Book
}

// GenreDetail 类别详情/删除确认页
type GenreDetail struct {
	Genre *genre.Genre
	Books []*book.Book
}

// BookDetail 图书详情/删除确认页
type BookDetail struct {
	Book      *catalogdomain.BookView
	Instances []*bookinstance.BookInstance
}

// BookForm 图书创建/更新表单
type BookForm struct {
	Book    *book.Book // 创建表单为nil
	Authors []*author.Author
	Genres  []catalogdomain.GenreOption
}

// InstanceForm 馆藏副本创建/更新表单
type InstanceForm struct {
	Instance *bookinstance.BookInstance // 创建表单为nil
	Books    []*book.Book
	Statuses []bookinstance.Status
}

// =========================================
// 校验
// =========================================

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误里使用json字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// check 执行结构体校验,失败时返回带字段明细的校验错误
func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.ErrInvalidParams.WithErr(err)
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperrors.Validation(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "max":
		return fmt.Sprintf("长度不能超过%s", fe.Param())
	case "oneof":
		return fmt.Sprintf("取值必须是: %s", fe.Param())
	}
	return "格式不正确"
}
