package order

import (
	"context"
	"fmt"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// ListOrdersUseCase 订单列表查询用例
// 设计说明:
// 1. 普通用户只能看自己的订单;管理员传IncludeAll看全部
// 2. 按创建时间倒序,最新的订单在前
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建列表查询用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// Execute 执行列表查询
func (uc *ListOrdersUseCase) Execute(ctx context.Context, req ListOrdersRequest) (*ListOrdersResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	orders, total, err := uc.orderRepo.List(ctx, order.ListParams{
		BuyerID:    req.BuyerID,
		IncludeAll: req.IncludeAll,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	list := make([]OrderSummary, len(orders))
	for i, o := range orders {
		list[i] = OrderSummary{
			ID:             o.ID,
			Reference:      o.Reference,
			BuyerID:        o.BuyerID,
			BuyerName:      o.BuyerName,
			PaymentMethod:  o.PaymentMethod,
			Paid:           o.Paid,
			Status:         int(o.Status),
			StatusText:     o.Status.String(),
			Total:          o.Total,
			TotalFormatted: formatAmount(o.Total),
			ItemCount:      len(o.Items),
			CreatedAt:      o.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListOrdersResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetOrderUseCase 订单详情查询用例
// 业务规则:只有买家本人或管理员可以查看(防止越权访问)
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建详情查询用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// Execute 执行详情查询
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID, requesterID uint, isAdmin bool) (*OrderDetail, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err // ErrOrderNotFound
	}

	if !isAdmin && !o.IsOwnedBy(requesterID) {
		// 越权访问按"不存在"处理,不向非所有者泄露订单是否存在
		return nil, order.ErrOrderNotFound
	}

	return toOrderDetail(o), nil
}

func toOrderDetail(o *order.Order) *OrderDetail {
	items := make([]OrderItemDTO, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemDTO{
			BookID:    it.BookID,
			Title:     it.Title,
			Genre:     it.Genre,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.UnitPrice * int64(it.Quantity),
		}
	}
	return &OrderDetail{
		ID:             o.ID,
		Reference:      o.Reference,
		BuyerID:        o.BuyerID,
		BuyerName:      o.BuyerName,
		PaymentMethod:  o.PaymentMethod,
		Paid:           o.Paid,
		Status:         int(o.Status),
		StatusText:     o.Status.String(),
		Total:          o.Total,
		TotalFormatted: formatAmount(o.Total),
		Items:          items,
		CreatedAt:      o.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      o.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// formatAmount 分 → 元的展示字符串
func formatAmount(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

// =========================================
// 应用层DTO
// =========================================

// ListOrdersRequest 列表查询请求DTO
type ListOrdersRequest struct {
	BuyerID    uint // 买家(内部用户ID)
	IncludeAll bool // 管理员视角:看全部买家的订单
	Page       int
	PageSize   int
}

// OrderSummary 订单列表项DTO(不含订单行)
type OrderSummary struct {
	ID             uint   `json:"id"`
	Reference      string `json:"reference"`
	BuyerID        uint   `json:"buyer_id"`
	BuyerName      string `json:"buyer_name,omitempty"`
	PaymentMethod  string `json:"payment_method"`
	Paid           bool   `json:"paid"`
	Status         int    `json:"status"`
	StatusText     string `json:"status_text"`
	Total          int64  `json:"total"` // 总额(分)
	TotalFormatted string `json:"total_formatted"`
	ItemCount      int    `json:"item_count"`
	CreatedAt      string `json:"created_at"`
}

// ListOrdersResponse 列表查询响应DTO
type ListOrdersResponse struct {
	List       []OrderSummary `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// OrderItemDTO 订单行DTO
type OrderItemDTO struct {
	BookID    uint   `json:"book_id"`
	Title     string `json:"title"`
	Genre     string `json:"genre"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // 快照价(分)
	Subtotal  int64  `json:"subtotal"`
}

// OrderDetail 订单详情DTO
type OrderDetail struct {
	ID             uint           `json:"id"`
	Reference      string         `json:"reference"`
	BuyerID        uint           `json:"buyer_id"`
	BuyerName      string         `json:"buyer_name,omitempty"`
	PaymentMethod  string         `json:"payment_method"`
	Paid           bool           `json:"paid"`
	Status         int            `json:"status"`
	StatusText     string         `json:"status_text"`
	Total          int64          `json:"total"` // 总额(分)
	TotalFormatted string         `json:"total_formatted"`
	Items          []OrderItemDTO `json:"items"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}
