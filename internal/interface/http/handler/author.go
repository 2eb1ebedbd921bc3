package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/locallibrary/internal/interface/http/dto"
	"github.com/xiebiao/locallibrary/pkg/response"
)

// ListAuthors 作者列表
// @Summary      作者列表
// @Tags         作者
// @Produce      json
// @Param        sort  query string false "排序字段" Enums(family_name, first_name, date_of_birth, date_of_death)
// @Param        order query string false "排序方向" Enums(asc, desc)
// @Success      200 {object} response.Response{data=[]dto.AuthorResponse}
// @Failure      422 {object} response.Response "参数错误"
// @Router       /catalog/authors [get]
func (h *CatalogHandler) ListAuthors(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	authors, err := h.svc.ListAuthors(c.Request.Context(), q.ToQuery())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToAuthorResponses(authors))
}

// AuthorDetail 作者详情
// @Summary      作者详情
// @Description  作者及其名下图书
// @Tags         作者
// @Produce      json
// @Param        id path string true "作者ID"
// @Success      200 {object} response.Response{data=dto.AuthorDetailResponse}
// @Failure      404 {object} response.Response "作者不存在"
// @Router       /catalog/author/{id} [get]
func (h *CatalogHandler) AuthorDetail(c *gin.Context) {
	d, err := h.svc.AuthorDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToAuthorDetailResponse(d))
}

// CreateAuthor 创建作者
// @Summary      创建作者
// @Tags         作者
// @Accept       json
// @Produce      json
// @Param        request body dto.AuthorRequest true "作者信息"
// @Success      201 {object} response.Response{data=dto.RedirectResponse}
// @Failure      422 {object} response.Response "参数错误"
// @Router       /catalog/author/create [post]
func (h *CatalogHandler) CreateAuthor(c *gin.Context) {
	var req dto.AuthorRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.CreateAuthor(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	created(c, res.Record.ID, res.Path)
}

// AuthorUpdateForm 作者更新表单
// @Summary      作者更新表单
// @Tags         作者
// @Produce      json
// @Param        id path string true "作者ID"
// @Success      200 {object} response.Response{data=dto.AuthorResponse}
// @Failure      404 {object} response.Response "作者不存在"
// @Router       /catalog/author/{id}/update [get]
func (h *CatalogHandler) AuthorUpdateForm(c *gin.Context) {
	a, err := h.svc.AuthorUpdateForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToAuthorResponse(a))
}

// UpdateAuthor 更新作者(全量替换)
// @Summary      更新作者
// @Tags         作者
// @Accept       json
// @Produce      json
// @Param        id      path string            true "作者ID"
// @Param        request body dto.AuthorRequest true "作者信息"
// @Success      200 {object} response.Response{data=dto.RedirectResponse}
// @Failure      404 {object} response.Response "作者不存在"
// @Failure      422 {object} response.Response "参数错误"
// @Router       /catalog/author/{id}/update [post]
func (h *CatalogHandler) UpdateAuthor(c *gin.Context) {
	var req dto.AuthorRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.UpdateAuthor(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	saved(c, res.Record.ID, res.Path)
}

// AuthorDeleteForm 作者删除确认页
// @Summary      作者删除确认
// @Description  作者及阻止删除的图书
// @Tags         作者
// @Produce      json
// @Param        id path string true "作者ID"
// @Success      200 {object} response.Response{data=dto.AuthorDetailResponse}
// @Failure      404 {object} response.Response "作者不存在"
// @Router       /catalog/author/{id}/delete [get]
func (h *CatalogHandler) AuthorDeleteForm(c *gin.Context) {
	d, err := h.svc.AuthorDeleteForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToAuthorDetailResponse(d))
}

// DeleteAuthor 删除作者
// @Summary      删除作者
// @Description  仍有图书引用该作者时返回409和这些图书
// @Tags         作者
// @Produce      json
// @Param        id path string true "作者ID"
// @Success      200 {object} response.Response{data=dto.RedirectResponse}
// @Failure      404 {object} response.Response "作者不存在"
// @Failure      409 {object} response.Response{data=dto.BlockedResponse[dto.BookResponse]} "仍被图书引用"
// @Router       /catalog/author/{id}/delete [post]
func (h *CatalogHandler) DeleteAuthor(c *gin.Context) {
	res, err := h.svc.DeleteAuthor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !res.Deleted {
		response.Blocked(c, dto.BlockedResponse[*dto.BookResponse]{Blocking: dto.ToBookResponses(res.Blocking)})
		return
	}
	saved(c, "", res.Redirect)
}
