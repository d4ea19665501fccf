package cart

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrInvalidQuantity 加购数量必须大于0
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrItemNotFound 购物车中没有这本图书(或用户根本没有购物车)
	ErrItemNotFound = apperrors.ErrCartItemNotFound

	// ErrCartEmpty 购物车为空,无法结账
	ErrCartEmpty = apperrors.ErrCartEmpty
)
