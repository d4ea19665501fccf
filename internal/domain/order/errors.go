package order

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 订单领域错误定义
var (
	ErrOrderNotFound           = apperrors.ErrOrderNotFound
	ErrInvalidStatus           = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的订单状态")
	ErrInvalidStatusTransition = apperrors.ErrInvalidOrderStatus
	ErrInvalidPaymentMethod    = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的支付方式")
	ErrEmptyCart               = apperrors.ErrCartEmpty
	ErrForbidden               = apperrors.ErrForbidden
)
