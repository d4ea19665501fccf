package cart

import (
	"context"
)

// Repository 购物车仓储接口(依赖倒置原则)
// 设计说明:
// 1. 写路径(加购/移除/结账清空)全部工作在实体上,且必须
//    通过context传递事务——调用方负责把多个仓储操作包进
//    同一个TxManager.Transaction
// 2. 读路径(ViewByOwner)返回联表读模型,无副作用
type Repository interface {
	// FindByOwner 查车主的购物车(不含行),无车返回(nil, nil)
	FindByOwner(ctx context.Context, ownerID uint) (*Cart, error)

	// Create 为车主建车(owner_id唯一索引兜底并发重复建车)
	Create(ctx context.Context, c *Cart) error

	// FindItem 查购物车中某本书的行,无此行返回(nil, nil)
	FindItem(ctx context.Context, cartID, bookID uint) (*Item, error)

	// Items 购物车全部行,按book_id升序(结账按此顺序锁库存,
	// 固定加锁顺序避免两个结账事务相互循环等待)
	Items(ctx context.Context, cartID uint) ([]Item, error)

	// CreateItem 新增行
	CreateItem(ctx context.Context, item *Item) error

	// IncrementItemQuantity 行数量原子累加(delta必须>0)
	// 相对更新在数据库侧完成,两个并发合并不会相互覆盖
	IncrementItemQuantity(ctx context.Context, itemID uint, delta int) error

	// DecrementItemQuantity 行数量原子减1;数量恰为1时删行
	// 返回行是否被删除;行不存在返回ErrItemNotFound
	DecrementItemQuantity(ctx context.Context, itemID uint) (deleted bool, err error)

	// ClearItems 清空购物车全部行(结账第6步;购物车行本身保留)
	ClearItems(ctx context.Context, cartID uint) error

	// TotalUnits 车内商品总件数,无车返回0
	TotalUnits(ctx context.Context, ownerID uint) (int, error)

	// ViewByOwner 购物车读模型(行+图书+类别+当前库存),无车返回空视图
	ViewByOwner(ctx context.Context, ownerID uint) (*View, error)
}
