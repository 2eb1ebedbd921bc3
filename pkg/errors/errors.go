package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Fields记录校验失败的字段（字段名 → 原因），只有校验错误才会填充
// 4. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("[%d] %s", e.Code, e.Message)
	if len(e.Fields) > 0 {
		msg += " (" + strings.Join(e.FieldNames(), ",") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// 预定义错误是共享指针，WithField/Wrap出来的副本仍然需要 errors.Is(err, ErrXxx) 成立
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// FieldNames 返回排好序的字段名
func (e *AppError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithField 返回附带字段信息的副本（不修改预定义错误）
func (e *AppError) WithField(field, reason string) *AppError {
	cp := *e
	cp.Fields = make(map[string]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		cp.Fields[k] = v
	}
	cp.Fields[field] = reason
	return &cp
}

// WithErr 返回包装了内部错误的副本
func (e *AppError) WithErr(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// Validation 创建带字段明细的校验错误
func Validation(fields map[string]string) *AppError {
	e := New(ErrCodeInvalidParams, "参数校验失败")
	if len(fields) > 0 {
		e.Fields = make(map[string]string, len(fields))
		for k, v := range fields {
			e.Fields[k] = v
		}
	}
	return e
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal          = 50000 // 内部错误
	ErrCodeDatabaseError     = 50001 // 数据库错误
	ErrCodeRedisError        = 50002 // Redis错误
	ErrCodeDanglingReference = 50010 // 引用的记录已不存在

	ErrCodeStorageUnavailable = 50300 // 存储不可用
	ErrCodeTimeout            = 50400 // 操作超时

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeAuthorNotFound   = 40401 // 作者不存在
	ErrCodeGenreNotFound    = 40402 // 类别不存在
	ErrCodeBookNotFound     = 40403 // 图书不存在
	ErrCodeInstanceNotFound = 40404 // 馆藏副本不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError = 40000 // 业务错误(通用)
	ErrCodeReferenced    = 40010 // 仍被其他记录引用，禁止删除

	// 限流（42900）
	ErrCodeRateLimited = 42900 // 请求过于频繁

	// 调用方取消（49900）
	ErrCodeCanceled = 49900 // 调用方在完成前取消了请求

	// 参数错误（40900-40999）
	ErrCodeInvalidParams    = 40900 // 参数错误
	ErrCodeBindError        = 40901 // 参数绑定失败
	ErrCodeInvalidReference = 40902 // 引用了不存在的记录
	ErrCodeDuplicateName    = 40903 // 名称重复
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal           = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError      = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError         = New(ErrCodeRedisError, "缓存服务错误")
	ErrDanglingReference  = New(ErrCodeDanglingReference, "引用的记录不存在")
	ErrStorageUnavailable = New(ErrCodeStorageUnavailable, "存储服务暂不可用")
	ErrTimeout            = New(ErrCodeTimeout, "操作超时")

	// 资源不存在
	ErrNotFound = New(ErrCodeNotFound, "资源不存在")

	// 业务规则
	ErrReferenced = New(ErrCodeReferenced, "记录仍被引用，无法删除")

	// 限流
	ErrRateLimited = New(ErrCodeRateLimited, "请求过于频繁，请稍后再试")

	// 调用方取消
	ErrCanceled = New(ErrCodeCanceled, "请求已取消")

	// 参数错误
	ErrInvalidParams    = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError        = New(ErrCodeBindError, "参数格式错误")
	ErrInvalidReference = New(ErrCodeInvalidReference, "引用的记录不存在")
	ErrDuplicateName    = New(ErrCodeDuplicateName, "名称已存在")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

func codeIn(err error, lo, hi int) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code >= lo && appErr.Code <= hi
}

// IsNotFound 是否为"不存在"类错误（包括各实体专属错误码）
func IsNotFound(err error) bool { return codeIn(err, 40400, 40499) }

// IsValidation 是否为参数/校验类错误
func IsValidation(err error) bool { return codeIn(err, 40900, 40999) }

func IsReferenced(err error) bool { return codeIn(err, ErrCodeReferenced, ErrCodeReferenced) }

func IsTimeout(err error) bool { return codeIn(err, ErrCodeTimeout, ErrCodeTimeout) }

func IsCanceled(err error) bool { return codeIn(err, ErrCodeCanceled, ErrCodeCanceled) }

func IsStorageUnavailable(err error) bool {
	return codeIn(err, ErrCodeStorageUnavailable, ErrCodeStorageUnavailable)
}

func IsDanglingReference(err error) bool {
	return codeIn(err, ErrCodeDanglingReference, ErrCodeDanglingReference)
}
