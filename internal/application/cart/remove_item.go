package cart

import (
	"context"
	"log"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
)

// RemoveItemUseCase 移除购物车行用例
// 设计说明:
// 1. 每次调用数量减1;减到0时整行删除(Quantity恒>=1)
// 2. 无车或车内无此书都返回ErrItemNotFound,对调用方不可区分
type RemoveItemUseCase struct {
	cartRepo  cart.Repository
	cartCache *redis.CartCache
}

// NewRemoveItemUseCase 创建移除用例
func NewRemoveItemUseCase(cartRepo cart.Repository, cartCache *redis.CartCache) *RemoveItemUseCase {
	return &RemoveItemUseCase{
		cartRepo:  cartRepo,
		cartCache: cartCache,
	}
}

// Execute 执行移除
func (uc *RemoveItemUseCase) Execute(ctx context.Context, ownerID, bookID uint) (*RemoveItemResponse, error) {
	// 1. 查车
	c, err := uc.cartRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, cart.ErrItemNotFound
	}

	// 2. 查行
	item, err := uc.cartRepo.FindItem(ctx, c.ID, bookID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, cart.ErrItemNotFound
	}

	// 3. 原子减1,数量恰为1时删行
	// (减1和删行的条件判定都在数据库侧,并发减件不会丢失)
	deleted, err := uc.cartRepo.DecrementItemQuantity(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	remaining := 0
	if !deleted {
		// 回读剩余数量(并发写入后行内数量以数据库为准)
		current, ferr := uc.cartRepo.FindItem(ctx, c.ID, bookID)
		if ferr != nil {
			return nil, ferr
		}
		if current != nil {
			remaining = current.Quantity
		}
	}

	// 4. 角标缓存失效
	if uc.cartCache != nil {
		if err := uc.cartCache.Invalidate(ctx, ownerID); err != nil {
			log.Printf("WARN: invalidate cart badge failed: owner_id=%d, err=%v", ownerID, err)
		}
	}

	total, err := uc.cartRepo.TotalUnits(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &RemoveItemResponse{
		BookID:     bookID,
		Quantity:   remaining,
		TotalUnits: total,
	}, nil
}

// RemoveItemResponse 移除响应DTO
type RemoveItemResponse struct {
	BookID     uint `json:"book_id"`
	Quantity   int  `json:"quantity"` // 剩余行数量(0表示行已删除)
	TotalUnits int  `json:"total_units"`
}
