package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// OrderHandler 订单HTTP处理器
// 说明：普通用户只能看自己的订单；管理员可以看全部、
// 流转状态、翻转支付标记
type OrderHandler struct {
	listOrdersUseCase    *apporder.ListOrdersUseCase
	getOrderUseCase      *apporder.GetOrderUseCase
	updateStatusUseCase  *apporder.UpdateStatusUseCase
	togglePaymentUseCase *apporder.TogglePaymentUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	listOrdersUseCase *apporder.ListOrdersUseCase,
	getOrderUseCase *apporder.GetOrderUseCase,
	updateStatusUseCase *apporder.UpdateStatusUseCase,
	togglePaymentUseCase *apporder.TogglePaymentUseCase,
) *OrderHandler {
	return &OrderHandler{
		listOrdersUseCase:    listOrdersUseCase,
		getOrderUseCase:      getOrderUseCase,
		updateStatusUseCase:  updateStatusUseCase,
		togglePaymentUseCase: togglePaymentUseCase,
	}
}

// List 我的订单列表
// @Summary      订单列表
// @Description  按创建时间倒序；只返回当前用户自己的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	h.list(c, false)
}

// AdminList 全部订单列表（管理端）
// @Summary      全部订单列表
// @Description  管理员视角，含买家姓名
// @Tags         订单管理
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/admin/orders [get]
func (h *OrderHandler) AdminList(c *gin.Context) {
	h.list(c, true)
}

func (h *OrderHandler) list(c *gin.Context, includeAll bool) {
	var query dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listOrdersUseCase.Execute(c.Request.Context(), apporder.ListOrdersRequest{
		BuyerID:    middleware.MustGetUserID(c),
		IncludeAll: includeAll,
		Page:       query.Page,
		PageSize:   query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// Get 订单详情
// @Summary      订单详情
// @Description  只有买家本人或管理员可见；越权按不存在处理
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDetail}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.getOrderUseCase.Execute(c.Request.Context(), id,
		middleware.MustGetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateStatus 订单状态流转（管理端）
// @Summary      更新订单状态
// @Description  沿状态机流转：待处理→已发货/已取消，已发货→已送达
// @Tags         订单管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=apporder.OrderDetail}
// @Failure      400 {object} response.Response "非法状态流转"
// @Router       /api/v1/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.updateStatusUseCase.Execute(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// TogglePayment 翻转支付标记（管理端）
// @Summary      翻转支付标记
// @Description  人工记账开关；已取消的订单也允许翻转
// @Tags         订单管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDetail}
// @Router       /api/v1/admin/orders/{id}/payment [put]
func (h *OrderHandler) TogglePayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.togglePaymentUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
