package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/pkg/response"
)

// GenreHandler 图书类别HTTP处理器
// 说明：List公开（前台按类别筛选用），增删改挂管理端路由组
type GenreHandler struct {
	genreUseCase *appcatalog.GenreUseCase
}

// NewGenreHandler 创建类别处理器
func NewGenreHandler(genreUseCase *appcatalog.GenreUseCase) *GenreHandler {
	return &GenreHandler{genreUseCase: genreUseCase}
}

// List 全部类别
// @Summary      类别列表
// @Tags         类别
// @Produce      json
// @Success      200 {object} response.Response{data=[]appcatalog.GenreDTO}
// @Router       /api/v1/genres [get]
func (h *GenreHandler) List(c *gin.Context) {
	result, err := h.genreUseCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Create 新建类别（管理端）
// @Summary      新建类别
// @Tags         类别管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.GenreRequest true "类别名称"
// @Success      200 {object} response.Response{data=appcatalog.GenreDTO}
// @Failure      409 {object} response.Response "类别已存在"
// @Router       /api/v1/admin/genres [post]
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.genreUseCase.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Rename 重命名类别（管理端）
// @Summary      重命名类别
// @Tags         类别管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "类别ID"
// @Param        request body dto.GenreRequest true "新名称"
// @Success      200 {object} response.Response{data=appcatalog.GenreDTO}
// @Router       /api/v1/admin/genres/{id} [put]
func (h *GenreHandler) Rename(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.genreUseCase.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除类别（管理端）
// @Summary      删除类别
// @Description  类别下仍有图书时拒绝删除
// @Tags         类别管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "类别ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "类别下仍有图书"
// @Router       /api/v1/admin/genres/{id} [delete]
func (h *GenreHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.genreUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
