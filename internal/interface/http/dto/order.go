package dto

// ListOrdersQuery 订单列表查询参数
type ListOrdersQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// UpdateOrderStatusRequest 订单状态流转请求
// 状态值：1=待处理 2=已发货 3=已送达 4=已取消
type UpdateOrderStatusRequest struct {
	Status int `json:"status" binding:"required,min=1,max=4"`
}
