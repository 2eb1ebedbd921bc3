package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/locallibrary/internal/interface/http/dto"
	"github.com/xiebiao/locallibrary/pkg/response"
)

// ListInstances 馆藏副本列表(带图书)
// @Summary      馆藏副本列表
// @Tags         馆藏副本
// @Produce      json
// @Param        sort  query string false "排序字段" Enums(due_back, status, imprint)
// @Param        order query string false "排序方向" Enums(asc, desc)
// @Success      200 {object} response.Response{data=[]dto.InstanceViewResponse}
// @Failure      422 {object} response.Response "参数错误"
// @Router       /catalog/bookinstances [get]
func (h *CatalogHandler) ListInstances(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	instances, err := h.svc.ListInstances(c.Request.Context(), q.ToQuery())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToInstanceViewResponses(instances))
}

// InstanceDetail 馆藏副本详情
// @Summary      馆藏副本详情
// @Tags         馆藏副本
// @Produce      json
// @Param        id path string true "副本ID"
// @Success      200 {object} response.Response{data=dto.InstanceViewResponse}
// @Failure      404 {object} response.Response "副本不存在"
// @Router       /catalog/bookinstance/{id} [get]
func (h *CatalogHandler) InstanceDetail(c *gin.Context) {
	v, err := h.svc.InstanceDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToInstanceViewResponse(v))
}

// InstanceCreateForm 馆藏副本创建表单
// @Summary      馆藏副本创建表单
// @Description  所有图书和可选状态
// @Tags         馆藏副本
// @Produce      json
// @Success      200 {object} response.Response{data=dto.InstanceFormResponse}
// @Router       /catalog/bookinstance/create [get]
func (h *CatalogHandler) InstanceCreateForm(c *gin.Context) {
	f, err := h.svc.InstanceCreateForm(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToInstanceFormResponse(f))
}

// CreateInstance 创建馆藏副本
// @Summary      创建馆藏副本
// @Tags         馆藏副本
// @Accept       json
// @Produce      json
// @Param        request body dto.InstanceRequest true "副本信息"
// @Success      201 {object} response.Response{data=dto.RedirectResponse}
// @Failure      422 {object} response.Response "参数错误或图书不存在"
// @Router       /catalog/bookinstance/create [post]
func (h *CatalogHandler) CreateInstance(c *gin.Context) {
	var req dto.InstanceRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.CreateInstance(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	created(c, res.Record.ID, res.Path)
}

// InstanceUpdateForm 馆藏副本更新表单
// @Summary      馆藏副本更新表单
// @Tags         馆藏副本
// @Produce      json
// @Param        id path string true "副本ID"
// @Success      200 {object} response.Response{data=dto.InstanceFormResponse}
// @Failure      404 {object} response.Response "副本不存在"
// @Router       /catalog/bookinstance/{id}/update [get]
func (h *CatalogHandler) InstanceUpdateForm(c *gin.Context) {
	f, err := h.svc.InstanceUpdateForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToInstanceFormResponse(f))
}

// UpdateInstance 更新馆藏副本(全量替换)
// @Summary      更新馆藏副本
// @Tags         馆藏副本
// @Accept       json
// @Produce      json
// @Param        id      path string              true "副本ID"
// @Param        request body dto.InstanceRequest true "副本信息"
// @Success      200 {object} response.Response{data=dto.RedirectResponse}
// @Failure      404 {object} response.Response "副本不存在"
// @Failure      422 {object} response.Response "参数错误或图书不存在"
// @Router       /catalog/bookinstance/{id}/update [post]
func (h *CatalogHandler) UpdateInstance(c *gin.Context) {
	var req dto.InstanceRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.UpdateInstance(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	saved(c, res.Record.ID, res.Path)
}

// InstanceDeleteForm 馆藏副本删除确认页
// @Summary      馆藏副本删除确认
// @Tags         馆藏副本
// @Produce      json
// @Param        id path string true "副本ID"
// @Success      200 {object} response.Response{data=dto.InstanceViewResponse}
// @Failure      404 {object} response.Response "副本不存在"
// @Router       /catalog/bookinstance/{id}/delete [get]
func (h *CatalogHandler) InstanceDeleteForm(c *gin.Context) {
	v, err := h.svc.InstanceDeleteForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToInstanceViewResponse(v))
}

// DeleteInstance 删除馆藏副本
// @Summary      删除馆藏副本
// @Tags         馆藏副本
// @Produce      json
// @Param        id path string true "副本ID"
// @Success      200 {object} response.Response{data=dto.RedirectResponse}
// @Failure      404 {object} response.Response "副本不存在"
// @Router       /catalog/bookinstance/{id}/delete [post]
func (h *CatalogHandler) DeleteInstance(c *gin.Context) {
	res, err := h.svc.DeleteInstance(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	saved(c, "", res.Redirect)
}
