package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	appcheckout "github.com/xiebiao/bookshop/internal/application/checkout"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CartHandler 购物车HTTP处理器
// 说明：全部接口要求登录；车主ID取自认证中间件注入的内部用户ID,
// 客户端无法指定别人的购物车
type CartHandler struct {
	getCartUseCase    *appcart.GetCartUseCase
	badgeUseCase      *appcart.BadgeUseCase
	addItemUseCase    *appcart.AddItemUseCase
	removeItemUseCase *appcart.RemoveItemUseCase
	checkoutUseCase   *appcheckout.UseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	getCartUseCase *appcart.GetCartUseCase,
	badgeUseCase *appcart.BadgeUseCase,
	addItemUseCase *appcart.AddItemUseCase,
	removeItemUseCase *appcart.RemoveItemUseCase,
	checkoutUseCase *appcheckout.UseCase,
) *CartHandler {
	return &CartHandler{
		getCartUseCase:    getCartUseCase,
		badgeUseCase:      badgeUseCase,
		addItemUseCase:    addItemUseCase,
		removeItemUseCase: removeItemUseCase,
		checkoutUseCase:   checkoutUseCase,
	}
}

// Get 查看购物车
// @Summary      查看购物车
// @Description  返回行明细（书名、类别、快照价、小计、实时库存）与合计
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=cart.View}
// @Router       /api/v1/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	result, err := h.getCartUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Badge 购物车角标数
// @Summary      购物车角标
// @Description  车内商品总件数（缓存30分钟，写购物车时失效）
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=int}
// @Router       /api/v1/cart/badge [get]
func (h *CartHandler) Badge(c *gin.Context) {
	count, err := h.badgeUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}

// AddItem 加购
// @Summary      加入购物车
// @Description  重复加购同一本书时数量合并累加；单价取加购时的快照
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartItemRequest true "图书与数量"
// @Success      200 {object} response.Response{data=appcart.AddItemResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.addItemUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), appcart.AddItemRequest{
		BookID:   req.BookID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RemoveItem 移除一件
// @Summary      移除购物车商品
// @Description  数量减1；减到0时整行删除
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path int true "图书ID"
// @Success      200 {object} response.Response{data=appcart.RemoveItemResponse}
// @Failure      404 {object} response.Response "购物车中没有这本图书"
// @Router       /api/v1/cart/items/{book_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	result, err := h.removeItemUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Checkout 结账
// @Summary      结账下单
// @Description  整车生成订单：锁定并扣减库存、按快照价生成订单行、清空购物车，整条链路在一个事务内
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "支付方式"
// @Success      200 {object} response.Response{data=appcheckout.Response}
// @Failure      400 {object} response.Response "购物车为空或库存不足"
// @Router       /api/v1/cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.checkoutUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), appcheckout.Request{
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
