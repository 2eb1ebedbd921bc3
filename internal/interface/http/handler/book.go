package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/locallibrary/internal/interface/http/dto"
	"github.com/xiebiao/locallibrary/pkg/response"
)

// ListBooks 图书列表(带作者)
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Param        sort  query string false "排序字段" Enums(title, isbn)
// @Param        order query string false "排序方向" Enums(asc, desc)
// @Success      200 {object} response.Response{data=[]dto.BookViewResponse}
// @Failure      422 {object} response.Response "参数错误"
// @Router       /catalog/books [get]
func (h *CatalogHandler) ListBooks(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	books, err := h.svc.ListBooks(c.Request.Context(), q.ToQuery())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookViewResponses(books))
}

// BookDetail 图书详情
// @Summary      图书详情
// @Description  图书(作者和类别已解析)及其馆藏副本
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookDetailResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /catalog/book/{id} [get]
func (h *CatalogHandler) BookDetail(c *gin.Context) {
	d, err := h.svc.BookDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookDetailResponse(d))
}

// BookCreateForm 图书创建表单
// @Summary      图书创建表单
// @Description  所有作者和类别
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=dto.BookFormResponse}
// @Router       /catalog/book/create [get]
func (h *CatalogHandler) BookCreateForm(c *gin.Context) {
	f, err := h.svc.BookCreateForm(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookFormResponse(f))
}

// CreateBook 创建图书
// @Summary      创建图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.RedirectResponse}
// @Failure      422 {object} response.Response "参数错误或引用的作者/类别不存在"
// @Router       /catalog/book/create [post]
func (h *CatalogHandler) CreateBook(c *gin.Context) {
	var req dto.BookRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.CreateBook(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	created(c, res.Record.ID, res.Path)
}

// BookUpdateForm 图书更新表单
// @Summary      图书更新表单
// @Description  当前图书、所有作者、所有类别(已选中的checked=true)
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookFormResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /catalog/book/{id}/update [get]
func (h *CatalogHandler) BookUpdateForm(c *gin.Context) {
	f, err := h.svc.BookUpdateForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookFormResponse(f))
}

// UpdateBook 更新图书(全量替换,类别集合整体替换)
// @Summary      更新图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path string          true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.RedirectResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      422 {object} response.Response "参数错误或引用的作者/类别不存在"
// @Router       /catalog/book/{id}/update [post]
func (h *CatalogHandler) UpdateBook(c *gin.Context) {
	var req dto.BookRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.UpdateBook(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	saved(c, res.Record.ID, res.Path)
}

// BookDeleteForm 图书删除确认页
// @Summary      图书删除确认
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookDetailResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /catalog/book/{id}/delete [get]
func (h *CatalogHandler) BookDeleteForm(c *gin.Context) {
	d, err := h.svc.BookDeleteForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookDetailResponse(d))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  仍有馆藏副本时返回409和这些副本
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=dto.RedirectResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response{data=dto.BlockedResponse[dto.InstanceResponse]} "仍有馆藏副本"
// @Router       /catalog/book/{id}/delete [post]
func (h *CatalogHandler) DeleteBook(c *gin.Context) {
	res, err := h.svc.DeleteBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !res.Deleted {
		response.Blocked(c, dto.BlockedResponse[*dto.InstanceResponse]{Blocking: dto.ToInstanceResponses(res.Blocking)})
		return
	}
	saved(c, "", res.Redirect)
}
