package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/pkg/response"
)

// StockHandler 库存管理HTTP处理器（管理端）
type StockHandler struct {
	stockUseCase *appcatalog.StockUseCase
}

// NewStockHandler 创建库存处理器
func NewStockHandler(stockUseCase *appcatalog.StockUseCase) *StockHandler {
	return &StockHandler{stockUseCase: stockUseCase}
}

// List 库存列表
// @Summary      库存列表
// @Description  联表书名；没有库存记录的图书数量显示为0
// @Tags         库存管理
// @Produce      json
// @Security     BearerAuth
// @Param        term query string false "书名前缀过滤"
// @Success      200 {object} response.Response{data=[]inventory.StockListing}
// @Router       /api/v1/admin/stocks [get]
func (h *StockHandler) List(c *gin.Context) {
	var query dto.StockListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.stockUseCase.List(c.Request.Context(), query.Term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Set 设置图书库存
// @Summary      设置库存
// @Description  直接覆盖数量；0表示售罄
// @Tags         库存管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path int true "图书ID"
// @Param        request body dto.SetStockRequest true "库存数量"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/admin/stocks/{book_id} [put]
func (h *StockHandler) Set(c *gin.Context) {
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	var req dto.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.stockUseCase.Set(c.Request.Context(), bookID, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
