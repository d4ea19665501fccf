package order

import (
	"context"
)

// ListParams 订单列表查询参数
type ListParams struct {
	BuyerID    uint // 买家过滤,0表示不过滤(仅管理员可用)
	IncludeAll bool // true时不限定买家
	Page       int
	PageSize   int
}

// Repository 订单仓储接口
// 设计说明:
// 1. Create在结账事务内调用,必须透传事务上下文
// 2. 读取侧统一过滤软删除记录
// 3. FindByID带订单行与展示字段(书名/类别/买家名)的联表填充
type Repository interface {
	// Create 持久化订单及其全部订单行(同一事务)
	Create(ctx context.Context, o *Order) error

	// FindByID 查询订单详情(含订单行)，不存在时返回ErrOrderNotFound
	FindByID(ctx context.Context, id uint) (*Order, error)

	// List 分页查询订单(按创建时间倒序)，返回订单列表和总数
	List(ctx context.Context, params ListParams) ([]*Order, int64, error)

	// Update 持久化支付标记与状态变更(不触碰订单行)
	Update(ctx context.Context, o *Order) error
}
