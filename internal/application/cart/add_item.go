package cart

import (
	"context"
	"errors"
	"log"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// AddItemUseCase 加购用例
// 设计说明:
// 1. 重复加购合并:同一本书在车内只有一行,数量累加
// 2. 单价在"加购时"快照,图书后续改价不影响车内的行
// 3. 无购物车时先建车;(cart_id, book_id)唯一索引兜底并发重复加行
// 4. 写入成功后使角标缓存失效(删除而非更新,下次读时回源重建)
type AddItemUseCase struct {
	cartRepo  cart.Repository
	bookRepo  catalog.BookRepository
	cartCache *redis.CartCache
}

// NewAddItemUseCase 创建加购用例
func NewAddItemUseCase(cartRepo cart.Repository, bookRepo catalog.BookRepository, cartCache *redis.CartCache) *AddItemUseCase {
	return &AddItemUseCase{
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		cartCache: cartCache,
	}
}

// Execute 执行加购
func (uc *AddItemUseCase) Execute(ctx context.Context, ownerID uint, req AddItemRequest) (*AddItemResponse, error) {
	// 1. 参数校验
	if req.Quantity <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	// 2. 图书必须存在(价格快照来自当前价)
	book, err := uc.bookRepo.FindByID(ctx, req.BookID)
	if err != nil {
		return nil, err // ErrBookNotFound
	}

	// 3. 查车,无车先建
	c, err := uc.cartRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &cart.Cart{OwnerID: ownerID}
		// 并发建车时Create内部会复用已有的车
		if err := uc.cartRepo.Create(ctx, c); err != nil {
			return nil, err
		}
	}

	// 4. 合并或新增行
	item, err := uc.cartRepo.FindItem(ctx, c.ID, req.BookID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		// 已有此书:数量在数据库侧原子累加,保留原快照价
		// (读-改-写回绝对值会让并发的两次加购相互覆盖)
		if err := uc.cartRepo.IncrementItemQuantity(ctx, item.ID, req.Quantity); err != nil {
			return nil, err
		}
		item.Quantity += req.Quantity
	} else {
		item = &cart.Item{
			CartID:    c.ID,
			BookID:    req.BookID,
			Quantity:  req.Quantity,
			UnitPrice: book.Price,
		}
		if err := uc.cartRepo.CreateItem(ctx, item); err != nil {
			// 并发加同一本书:另一个请求先插入了行,改为累加
			if errors.Is(err, apperrors.ErrConflict) {
				existing, ferr := uc.cartRepo.FindItem(ctx, c.ID, req.BookID)
				if ferr != nil || existing == nil {
					return nil, err
				}
				if uerr := uc.cartRepo.IncrementItemQuantity(ctx, existing.ID, req.Quantity); uerr != nil {
					return nil, uerr
				}
				existing.Quantity += req.Quantity
				item = existing
			} else {
				return nil, err
			}
		}
	}

	// 按件数计数(一次加购3本算3件)
	metrics.CartItemsAddedTotal.Add(float64(req.Quantity))

	// 5. 角标缓存失效(尽力而为,失败只记日志)
	uc.invalidateBadge(ctx, ownerID)

	// 6. 返回当前车内总件数(角标)
	total, err := uc.cartRepo.TotalUnits(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &AddItemResponse{
		BookID:     item.BookID,
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		TotalUnits: total,
	}, nil
}

func (uc *AddItemUseCase) invalidateBadge(ctx context.Context, ownerID uint) {
	if uc.cartCache == nil {
		return
	}
	if err := uc.cartCache.Invalidate(ctx, ownerID); err != nil {
		log.Printf("WARN: invalidate cart badge failed: owner_id=%d, err=%v", ownerID, err)
	}
}

// =========================================
// 应用层DTO
// =========================================

// AddItemRequest 加购请求DTO
type AddItemRequest struct {
	BookID   uint
	Quantity int
}

// AddItemResponse 加购响应DTO
type AddItemResponse struct {
	BookID     uint  `json:"book_id"`
	Quantity   int   `json:"quantity"`   // 合并后的行数量
	UnitPrice  int64 `json:"unit_price"` // 快照价(分)
	TotalUnits int   `json:"total_units"`
}
