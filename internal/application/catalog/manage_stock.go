package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/inventory"
)

// StockUseCase 库存管理用例(管理端)
// 设计说明:
// 1. 管理端设置库存是直接覆盖数量,不是增量调整
// 2. 与结账扣减路径共用同一张stocks表,扣减的防超卖约束
//    在inventory.Repository.Decrement上,这里不涉及
type StockUseCase struct {
	stockRepo inventory.Repository
	bookRepo  catalog.BookRepository
}

// NewStockUseCase 创建库存管理用例
func NewStockUseCase(stockRepo inventory.Repository, bookRepo catalog.BookRepository) *StockUseCase {
	return &StockUseCase{
		stockRepo: stockRepo,
		bookRepo:  bookRepo,
	}
}

// Set 设置图书库存数量
// 业务规则:图书必须存在;数量>=0(0表示售罄,不是删除记录)
func (uc *StockUseCase) Set(ctx context.Context, bookID uint, quantity int) error {
	if quantity < 0 {
		return inventory.ErrInvalidQuantity
	}
	if _, err := uc.bookRepo.FindByID(ctx, bookID); err != nil {
		return err // ErrBookNotFound
	}
	return uc.stockRepo.Upsert(ctx, bookID, quantity)
}

// List 库存管理列表(联表书名,term为标题前缀过滤)
// 说明:没有库存记录的图书也会出现在列表中,数量显示为0
func (uc *StockUseCase) List(ctx context.Context, term string) ([]inventory.StockListing, error) {
	return uc.stockRepo.ListWithBook(ctx, term)
}
