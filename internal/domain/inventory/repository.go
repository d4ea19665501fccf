package inventory

import (
	"context"
)

// Repository 库存仓储接口(依赖倒置原则)
// 并发约定:
// 1. LockByBookID与Decrement必须在同一个事务context内成对使用:
//    先SELECT FOR UPDATE锁行并校验,再条件UPDATE扣减
// 2. Decrement即使在持锁情况下也带WHERE quantity >= ?条件并检查
//    受影响行数——锁防并发,条件防一切路径下的负库存
type Repository interface {
	// FindByBookID 查图书库存,无记录返回(nil, nil)
	FindByBookID(ctx context.Context, bookID uint) (*Stock, error)

	// LockByBookID 悲观锁查库存行(SELECT FOR UPDATE)
	// 必须在事务context内调用;无记录返回(nil, nil)
	LockByBookID(ctx context.Context, bookID uint) (*Stock, error)

	// Decrement 条件扣减:UPDATE ... SET quantity = quantity - ?
	// WHERE book_id = ? AND quantity >= ?
	// 受影响行数为0时返回带明细的库存不足/无记录错误
	Decrement(ctx context.Context, bookID uint, quantity int) error

	// Upsert 管理端设置库存(无记录则建,有则覆盖数量)
	Upsert(ctx context.Context, bookID uint, quantity int) error

	// ListWithBook 库存管理列表(联表书名,term为标题前缀过滤)
	ListWithBook(ctx context.Context, term string) ([]StockListing, error)
}
