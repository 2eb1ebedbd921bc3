package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/locallibrary/internal/interface/http/dto"
	"github.com/xiebiao/locallibrary/pkg/response"
)

// ListGenres 类别列表
// @Summary      类别列表
// @Tags         类别
// @Produce      json
// @Param        order query string false "排序方向" Enums(asc, desc)
// @Success      200 {object} response.Response{data=[]dto.GenreResponse}
// @Router       /catalog/genres [get]
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	genres, err := h.svc.ListGenres(c.Request.Context(), q.ToQuery())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToGenreResponses(genres))
}

// GenreDetail 类别详情
// @Summary      类别详情
// @Tags         类别
// @Produce      json
// @Param        id path string true "类别ID"
// @Success      200 {object} response.Response{data=dto.GenreDetailResponse}
// @Failure      404 {object} response.Response "类别不存在"
// @Router       /catalog/genre/{id} [get]
func (h *CatalogHandler) GenreDetail(c *gin.Context) {
	d, err := h.svc.GenreDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToGenreDetailResponse(d))
}

// CreateGenre 创建类别
// 同名类别已存在时返回200和已有记录,不重复创建
// @Summary      创建类别
// @Tags         类别
// @Accept       json
// @Produce      json
// @Param        request body dto.GenreRequest true "类别信息"
// @Success      201 {object} response.Response{data=dto.GenreCreatedResponse}
// @Success      200 {object} response.Response{data=dto.GenreCreatedResponse} "同名类别已存在"
// @Failure      422 {object} response.Response "参数错误"
// @Router       /catalog/genre/create [post]
func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	var req dto.GenreRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.CreateGenre(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	body := dto.GenreCreatedResponse{
		RedirectResponse: dto.RedirectResponse{ID: res.Record.ID, Redirect: res.Path},
		Existed:          res.Existed,
	}
	if res.Existed {
		response.Success(c, body)
		return
	}
	response.Created(c, res.Path, body)
}

// GenreUpdateForm 类别更新表单
// @Summary      类别更新表单
// @Tags         类别
// @Produce      json
// @Param        id path string true "类别ID"
// @Success      200 {object} response.Response{data=dto.GenreResponse}
// @Failure      404 {object} response.Response "类别不存在"
// @Router       /catalog/genre/{id}/update [get]
func (h *CatalogHandler) GenreUpdateForm(c *gin.Context) {
	g, err := h.svc.GenreUpdateForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToGenreResponse(g))
}

// UpdateGenre 重命名类别
// @Summary      更新类别
// @Tags         类别
// @Accept       json
// @Produce      json
// @Param        id      path string           true "类别ID"
// @Param        request body dto.GenreRequest true "类别信息"
// @Success      200 {object} response.Response{data=dto.RedirectResponse}
// @Failure      404 {object} response.Response "类别不存在"
// @Failure      422 {object} response.Response "参数错误或名称重复"
// @Router       /catalog/genre/{id}/update [post]
func (h *CatalogHandler) UpdateGenre(c *gin.Context) {
	var req dto.GenreRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.UpdateGenre(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	saved(c, res.Record.ID, res.Path)
}

// GenreDeleteForm 类别删除确认页
// @Summary      类别删除确认
// @Tags         类别
// @Produce      json
// @Param        id path string true "类别ID"
// @Success      200 {object} response.Response{data=dto.GenreDetailResponse}
// @Failure      404 {object} response.Response "类别不存在"
// @Router       /catalog/genre/{id}/delete [get]
func (h *CatalogHandler) GenreDeleteForm(c *gin.Context) {
	d, err := h.svc.GenreDeleteForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToGenreDetailResponse(d))
}

// DeleteGenre 删除类别
// @Summary      删除类别
// @Description  仍有图书属于该类别时返回409和这些图书
// @Tags         类别
// @Produce      json
// @Param        id path string true "类别ID"
// @Success      200 {object} response.Response{data=dto.RedirectResponse}
// @Failure      404 {object} response.Response "类别不存在"
// @Failure      409 {object} response.Response{data=dto.BlockedResponse[dto.BookResponse]} "仍被图书引用"
// @Router       /catalog/genre/{id}/delete [post]
func (h *CatalogHandler) DeleteGenre(c *gin.Context) {
	res, err := h.svc.DeleteGenre(c.Request.Context(), c.Param("id"))
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
