package inventory

import (
	"fmt"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// ErrStockNotFound 图书没有库存记录
// 结账时视为不可售:调用方需要知道是哪本书,用NewStockNotFound构造
var ErrStockNotFound = apperrors.ErrStockNotFound

// ErrInvalidQuantity 库存数量不能为负
var ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "库存数量不能为负数")

// NewStockNotFound 带图书ID的无库存记录错误
func NewStockNotFound(bookID uint) error {
	return apperrors.NewWithData(apperrors.ErrCodeStockNotFound,
		fmt.Sprintf("图书#%d暂无库存记录", bookID),
		map[string]uint{"book_id": bookID})
}

// ShortageDetail 缺货明细,随错误返回给调用方,
// 让前端能提示"某书还差几本"而不是笼统的"库存不足"
type ShortageDetail struct {
	BookID    uint `json:"book_id"`
	Requested int  `json:"requested"`
	Available int  `json:"available"`
}

// NewInsufficientStock 带缺货明细的库存不足错误
func NewInsufficientStock(bookID uint, requested, available int) error {
	return apperrors.NewWithData(apperrors.ErrCodeInsufficientStock,
		fmt.Sprintf("图书#%d库存不足:需要%d本,仅剩%d本", bookID, requested, available),
		ShortageDetail{BookID: bookID, Requested: requested, Available: available})
}
