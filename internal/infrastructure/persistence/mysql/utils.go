package mysql

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// isDuplicateError 判断是否为唯一索引冲突
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// isForeignKeyError 判断是否为外键约束冲突
// - MySQL 1451/1452: Cannot delete or update a parent row / Cannot add or update a child row: a foreign key constraint fails
// - PostgreSQL 23503: violates foreign key constraint
// - SQLite: FOREIGN KEY constraint failed
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "foreign key constraint fails") ||
		strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// isUnavailableError 判断是否为连接层面的故障(数据库不可达)
func isUnavailableError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "sql: database is closed") ||
		strings.Contains(msg, "invalid connection")
}

// translateError 把底层数据库错误转换为业务错误
// 超时 → ErrTimeout,调用方取消 → ErrCanceled,连接故障 → ErrStorageUnavailable,其余包装为内部错误
func translateError(err error, message string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrTimeout.WithErr(err)
	case errors.Is(err, context.Canceled):
		return apperrors.ErrCanceled.WithErr(err)
	case isUnavailableError(err):
		return apperrors.ErrStorageUnavailable.WithErr(err)
	}
	return apperrors.Wrap(err, message)
}

// orderClause 生成排序子句,相同值按ID升序保证顺序确定
// field必须已经过白名单校验
func orderClause(field string, desc bool) string {
	if field == "" {
		return "id ASC"
	}
	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	return field + dir + ", id ASC"
}
