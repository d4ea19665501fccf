package cart

import (
	"time"
)

// Cart 购物车实体(聚合根)
// DDD设计说明:
// 1. 每个用户最多一个有效购物车(owner_id唯一索引)
// 2. 购物车只有两个可观测状态:不存在、存在(0或多行)
//    结账只清空行,购物车行清空后与新建的空车不可区分
// 3. 携带软删除标记,但没有任何业务路径会置位它——
//    读取侧统一过滤,写入侧不提供删除流程
type Cart struct {
	ID        uint
	OwnerID   uint // 车主(内部用户ID,唯一)
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item 购物车行
// 设计说明:
// 1. 同一购物车内每本书最多一行((cart_id, book_id)唯一),
//    重复加购合并为数量累加
// 2. Quantity恒>=1:数量减到0的行直接删除,不落库
// 3. UnitPrice是"加入购物车时"的价格快照(分),
//    图书改价不影响已在车中的行,也决定了结账后订单行的单价
type Item struct {
	ID        uint
	CartID    uint
	BookID    uint
	Quantity  int   // 恒>=1
	UnitPrice int64 // 加购时单价快照(分)
}

// TotalUnits 购物车内商品总件数(徽标数)
func (c *Cart) TotalUnits() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// IsEmpty 是否为空车
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Subtotal 行小计(分)
func (i Item) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}
