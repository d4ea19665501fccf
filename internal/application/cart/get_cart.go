package cart

import (
	"context"
	"log"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// GetCartUseCase 购物车查询用例
// 说明:读模型由仓储联表拼出(行+图书+类别+实时库存),
// "没有购物车"返回空视图而非404
type GetCartUseCase struct {
	cartRepo cart.Repository
}

// NewGetCartUseCase 创建查询用例
func NewGetCartUseCase(cartRepo cart.Repository) *GetCartUseCase {
	return &GetCartUseCase{cartRepo: cartRepo}
}

// Execute 执行查询
func (uc *GetCartUseCase) Execute(ctx context.Context, ownerID uint) (*cart.View, error) {
	return uc.cartRepo.ViewByOwner(ctx, ownerID)
}

// BadgeUseCase 购物车角标用例
// 设计说明(Cache-Aside):
// 1. 角标(车内总件数)显示在每个页面的导航栏,读多写少
// 2. 先读Redis,命中直接返回;未命中回源数据库并写回缓存
// 3. 缓存读写失败都降级为直接回源,Redis故障不影响功能
type BadgeUseCase struct {
	cartRepo  cart.Repository
	cartCache *redis.CartCache
}

// NewBadgeUseCase 创建角标用例
func NewBadgeUseCase(cartRepo cart.Repository, cartCache *redis.CartCache) *BadgeUseCase {
	return &BadgeUseCase{
		cartRepo:  cartRepo,
		cartCache: cartCache,
	}
}

// Execute 查询角标数
func (uc *BadgeUseCase) Execute(ctx context.Context, ownerID uint) (int, error) {
	// 1. 读缓存
	if uc.cartCache != nil {
		count, hit, err := uc.cartCache.GetBadge(ctx, ownerID)
		if err != nil {
			metrics.IncCounterVec(metrics.CartBadgeCacheTotal, map[string]string{"result": "error"})
			log.Printf("WARN: read cart badge cache failed: owner_id=%d, err=%v", ownerID, err)
		} else if hit {
			metrics.IncCounterVec(metrics.CartBadgeCacheTotal, map[string]string{"result": "hit"})
			return count, nil
		} else {
			metrics.IncCounterVec(metrics.CartBadgeCacheTotal, map[string]string{"result": "miss"})
		}
	}

	// 2. 回源数据库
	total, err := uc.cartRepo.TotalUnits(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	// 3. 写回缓存(尽力而为)
	if uc.cartCache != nil {
		if err := uc.cartCache.SetBadge(ctx, ownerID, total); err != nil {
			log.Printf("WARN: write cart badge cache failed: owner_id=%d, err=%v", ownerID, err)
		}
	}

	return total, nil
}
