package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// LoggerKey gin.Context中请求级logger的键(由日志中间件写入)
const LoggerKey = "logger"

// StatusClientClosedRequest 调用方主动断开(nginx约定的499)
const StatusClientClosedRequest = 499

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），方便客户端判断错误类型
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
// 4. Fields是校验失败的字段明细（字段名 → 原因）
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功,Location指向新记录的规范路径
func Created(c *gin.Context, location string, data interface{}) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Blocked 删除被阻止,Data列出仍引用该记录的下游记录
func Blocked(c *gin.Context, data interface{}) {
	c.JSON(http.StatusConflict, Response{
		Code:    apperrors.ErrCodeReferenced,
		Message: apperrors.ErrReferenced.Message,
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	detail, err := svc.AuthorDetail(ctx, id)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := HTTPStatus(appErr.Code)

	// 服务端错误记录内部原因,不返回给客户端
	if status >= http.StatusInternalServerError {
		if v, ok := c.Get(LoggerKey); ok {
			if log, ok := v.(*zap.Logger); ok {
				log.Error("request failed", zap.Int("code", appErr.Code), zap.Error(err))
			}
		}
	}

	c.JSON(status, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Fields:  appErr.Fields,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(HTTPStatus(code), Response{
		Code:    code,
		Message: message,
	})
}

// HTTPStatus 业务错误码 → HTTP状态码
func HTTPStatus(code int) int {
	switch {
	case code == 0:
		return http.StatusOK
	case code == apperrors.ErrCodeReferenced:
		return http.StatusConflict
	case code == apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == apperrors.ErrCodeStorageUnavailable:
		return http.StatusServiceUnavailable
	case code == apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case code == apperrors.ErrCodeCanceled:
		return StatusClientClosedRequest
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 40900 && code < 41000:
		return http.StatusUnprocessableEntity
	case code >= 40000 && code < 50000:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
