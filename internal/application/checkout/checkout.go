package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/inventory"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// TxManager 事务管理接口(消费方定义)
// 由mysql.TxManager实现;测试时用内存实现替换
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UseCase 结账用例
// 设计说明(整条流水线在一个数据库事务内):
// 1. 事务内复核买家记录存在(中间件解析的ID再确认一次)
// 2. 读购物车行(按book_id升序——固定加锁顺序,两个并发结账
//    不会相互循环等待)
// 3. 空车直接拒绝(ErrCartEmpty)
// 4. 逐行:SELECT FOR UPDATE锁库存行 → 校验 → 条件UPDATE扣减
// 5. 生成订单+订单行,单价取购物车行的快照价(不是图书现价)
// 6. 清空购物车行(购物车本身保留)
// 7. 提交后:角标缓存失效、发布order.created事件、记录指标
//    ——这三件事都在事务外,失败不影响已提交的订单
type UseCase struct {
	cartRepo  cart.Repository
	stockRepo inventory.Repository
	orderRepo order.Repository
	userRepo  user.Repository
	txManager TxManager
	cartCache *redis.CartCache
	publisher order.EventPublisher
}

// NewUseCase 创建结账用例
func NewUseCase(
	cartRepo cart.Repository,
	stockRepo inventory.Repository,
	orderRepo order.Repository,
	userRepo user.Repository,
	txManager TxManager,
	cartCache *redis.CartCache,
	publisher order.EventPublisher,
) *UseCase {
	return &UseCase{
		cartRepo:  cartRepo,
		stockRepo: stockRepo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		txManager: txManager,
		cartCache: cartCache,
		publisher: publisher,
	}
}

// Execute 执行结账
func (uc *UseCase) Execute(ctx context.Context, buyerID uint, req Request) (*Response, error) {
	start := time.Now()

	// 支付方式校验(事务外,早失败)
	if !order.IsValidPaymentMethod(req.PaymentMethod) {
		return nil, order.ErrInvalidPaymentMethod
	}

	var created *order.Order

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 事务内复核买家(中间件已解析过一次,这里再确认
		//    用户记录仍然存在)
		if _, err := uc.userRepo.FindByID(txCtx, buyerID); err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return apperrors.ErrUnauthorized
			}
			return err
		}

		// 2. 查车
		c, err := uc.cartRepo.FindByOwner(txCtx, buyerID)
		if err != nil {
			return err
		}
		if c == nil {
			return cart.ErrCartEmpty
		}

		// 3. 读行(book_id升序,决定了第4步的加锁顺序)
		items, err := uc.cartRepo.Items(txCtx, c.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return cart.ErrCartEmpty
		}

		// 4. 逐行锁定并扣减库存
		orderItems := make([]order.Item, 0, len(items))
		for _, it := range items {
			stock, err := uc.stockRepo.LockByBookID(txCtx, it.BookID)
			if err != nil {
				return err
			}
			if stock == nil {
				return inventory.NewStockNotFound(it.BookID)
			}
			if !stock.CanFulfill(it.Quantity) {
				return inventory.NewInsufficientStock(it.BookID, it.Quantity, stock.Quantity)
			}

			// 条件UPDATE二次把关:锁防并发,条件防负库存
			if err := uc.stockRepo.Decrement(txCtx, it.BookID, it.Quantity); err != nil {
				return err
			}

			// 订单行单价 = 购物车行的快照价
			orderItems = append(orderItems, order.Item{
				BookID:    it.BookID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}

		// 5. 生成订单(Pending、未支付、总额=Σ快照价×数量)
		o := order.NewOrder(buyerID, req.PaymentMethod, orderItems)
		if err := uc.orderRepo.Create(txCtx, o); err != nil {
			return err
		}

		// 6. 清空购物车行(车保留,下次加购复用)
		if err := uc.cartRepo.ClearItems(txCtx, c.ID); err != nil {
			return err
		}

		created = o
		return nil
	})

	metrics.ObserveHistogram(metrics.CheckoutDuration, time.Since(start).Seconds())
	if err != nil {
		metrics.IncCounterVec(metrics.CheckoutTotal, map[string]string{"result": checkoutResult(err)})
		return nil, err
	}
	metrics.IncCounterVec(metrics.CheckoutTotal, map[string]string{"result": "success"})
	metrics.IncCounter(metrics.OrdersCreatedTotal)

	// 提交后副作用(尽力而为)
	uc.afterCommit(ctx, buyerID, created)

	return &Response{
		OrderID:        created.ID,
		Reference:      created.Reference,
		Status:         int(created.Status),
		StatusText:     created.Status.String(),
		PaymentMethod:  created.PaymentMethod,
		Total:          created.Total,
		TotalFormatted: formatAmount(created.Total),
		ItemCount:      len(created.Items),
		CreatedAt:      created.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// afterCommit 事务提交后的副作用:角标缓存失效、发布事件
// 这里的失败只记日志,订单已经提交,不能也不需要回滚
func (uc *UseCase) afterCommit(ctx context.Context, buyerID uint, o *order.Order) {
	if uc.cartCache != nil {
		if err := uc.cartCache.Invalidate(ctx, buyerID); err != nil {
			log.Printf("WARN: invalidate cart badge failed: owner_id=%d, err=%v", buyerID, err)
		}
	}

	if uc.publisher != nil {
		event := order.NewCreatedEvent(o)
		if err := uc.publisher.PublishOrderCreated(ctx, event); err != nil {
			log.Printf("WARN: publish order.created failed: order_id=%d, err=%v", o.ID, err)
		}
	}
}

// checkoutResult 错误 → 指标label
func checkoutResult(err error) string {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		switch appErr.Code {
		case apperrors.ErrCodeCartEmpty:
			return "empty_cart"
		case apperrors.ErrCodeInsufficientStock, apperrors.ErrCodeStockNotFound:
			return "insufficient_stock"
		}
	}
	return "error"
}

// formatAmount 分 → 元的展示字符串
func formatAmount(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

// =========================================
// 应用层DTO
// =========================================

// Request 结账请求DTO
type Request struct {
	PaymentMethod string // mbway | credit_card | multibanco | bank_transfer
}

// Response 结账响应DTO
type Response struct {
	OrderID        uint   `json:"order_id"`
	Reference      string `json:"reference"`
	Status         int    `json:"status"`
	StatusText     string `json:"status_text"`
	PaymentMethod  string `json:"payment_method"`
	Total          int64  `json:"total"` // 总额(分)
	TotalFormatted string `json:"total_formatted"`
	ItemCount      int    `json:"item_count"`
	CreatedAt      string `json:"created_at"`
}
