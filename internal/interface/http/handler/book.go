package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/pkg/response"
)

// BookHandler 图书HTTP处理器
// 说明：列表和详情是公开接口；增删改挂在管理端路由组
type BookHandler struct {
	listBooksUseCase  *appcatalog.ListBooksUseCase
	getBookUseCase    *appcatalog.GetBookUseCase
	publishUseCase    *appcatalog.PublishBookUseCase
	updateBookUseCase *appcatalog.UpdateBookUseCase
	deleteBookUseCase *appcatalog.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appcatalog.ListBooksUseCase,
	getBookUseCase *appcatalog.GetBookUseCase,
	publishUseCase *appcatalog.PublishBookUseCase,
	updateBookUseCase *appcatalog.UpdateBookUseCase,
	deleteBookUseCase *appcatalog.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:  listBooksUseCase,
		getBookUseCase:    getBookUseCase,
		publishUseCase:    publishUseCase,
		updateBookUseCase: updateBookUseCase,
		deleteBookUseCase: deleteBookUseCase,
	}
}

// List 图书列表
// @Summary      图书列表
// @Description  分页查询，支持关键词搜索（标题/作者）、类别过滤、排序
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认20,最大100)"
// @Param        keyword query string false "搜索关键词"
// @Param        genre_id query int false "类别ID"
// @Param        sort_by query string false "排序(price_asc|price_desc|title_asc)"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	var query dto.ListBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appcatalog.ListBooksRequest{
		Page:     query.Page,
		PageSize: query.PageSize,
		Keyword:  query.Keyword,
		GenreID:  query.GenreID,
		SortBy:   query.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// Get 图书详情
// @Summary      图书详情
// @Description  返回图书信息与当前可售库存
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appcatalog.BookDetail}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Create 上架图书（管理端）
// @Summary      上架图书
// @Tags         图书管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appcatalog.BookDetail}
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/admin/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.publishUseCase.Execute(c.Request.Context(), appcatalog.PublishBookRequest{
		ISBN:         req.ISBN,
		Title:        req.Title,
		Author:       req.Author,
		Price:        req.Price,
		GenreID:      req.GenreID,
		CoverImage:   req.CoverImage,
		Description:  req.Description,
		InitialStock: req.InitialStock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Update 更新图书（管理端）
// @Summary      更新图书
// @Description  零值字段不修改；改价不影响已有购物车/订单的快照价
// @Tags         图书管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "修改内容"
// @Success      200 {object} response.Response{data=appcatalog.BookDetail}
// @Router       /api/v1/admin/books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), id, appcatalog.UpdateBookRequest{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		GenreID:     req.GenreID,
		Price:       req.Price,
		CoverImage:  req.CoverImage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Delete 下架图书（管理端）
// @Summary      下架图书
// @Description  软删除；历史订单仍可展示书名
// @Tags         图书管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/admin/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// parseIDParam 解析路径中的数字ID参数
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, 40900, "无效的"+name+"参数")
		return 0, false
	}
	return uint(id), true
}
