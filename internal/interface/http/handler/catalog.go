package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appcatalog "github.com/xiebiao/locallibrary/internal/application/catalog"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
	"github.com/xiebiao/locallibrary/internal/interface/http/dto"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
	"github.com/xiebiao/locallibrary/pkg/response"
)

// CatalogHandler 目录HTTP处理器
// 作者/类别/图书/馆藏副本的路由都挂在这里,按实体拆在不同文件
type CatalogHandler struct {
	svc *appcatalog.Service
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(svc *appcatalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Summary 首页统计
// @Summary      目录统计
// @Description  图书、副本、可借副本、作者、类别的数量
// @Tags         目录
// @Produce      json
// @Success      200 {object} response.Response{data=dto.SummaryResponse}
// @Failure      503 {object} response.Response "存储不可用"
// @Router       /catalog [get]
func (h *CatalogHandler) Summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.SummaryResponse{Title: "Local Library Home", Summary: sum})
}

// Deletable 只读的删除检查
// @Summary      删除检查
// @Description  返回记录能否删除以及阻止删除的下游记录
// @Tags         目录
// @Produce      json
// @Param        kind path string true "实体类型" Enums(author, genre, book, bookinstance)
// @Param        id   path string true "记录ID"
// @Success      200 {object} response.Response{data=dto.DeletableResponse}
// @Failure      404 {object} response.Response "记录不存在"
// @Router       /catalog/{kind}/{id}/deletable [get]
func (h *CatalogHandler) Deletable(kind catalogdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := h.svc.CanDelete(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, dto.ToDeletableResponse(d))
	}
}

// =========================================
// 辅助函数
// =========================================

// bindJSON 绑定并校验请求体,失败时已写出响应
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, bindError(err))
		return false
	}
	return true
}

// bindQuery 绑定列表查询参数
func bindQuery(c *gin.Context) (dto.ListRequest, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, bindError(err))
		return req, false
	}
	return req, true
}

// bindError 绑定错误 → 带字段明细的AppError
func bindError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.ErrBindError.WithErr(err)
	}

	appErr := apperrors.ErrBindError
	for _, fe := range ve {
		appErr = appErr.WithField(fe.Field(), bindMessage(fe))
	}
	return appErr
}

func bindMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "max":
		return fmt.Sprintf("长度不能超过%s", fe.Param())
	case "alphanum":
		return "只能包含字母和数字"
	case "datetime":
		return "日期格式必须是 yyyy-mm-dd"
	case "oneof":
		return fmt.Sprintf("取值必须是: %s", fe.Param())
	}
	return "格式不正确"
}

// created 写出创建结果,Location为新记录的规范路径
func created(c *gin.Context, id, path string) {
	response.Created(c, path, dto.RedirectResponse{ID: id, Redirect: path})
}

// saved 写出更新结果
func saved(c *gin.Context, id, path string) {
	response.Success(c, dto.RedirectResponse{ID: id, Redirect: path})
}
