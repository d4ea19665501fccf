package dto

// AddCartItemRequest 加购请求
// 说明：重复加购同一本书时数量合并累加
type AddCartItemRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest 结账请求
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}
