package inventory

import (
	"time"
)

// Stock 库存实体
// DDD设计说明:
// 1. 每本书一行(book_id唯一索引),Quantity恒>=0
// 2. 只有两条写路径:管理端直接设置数量、结账扣减
// 3. 扣减必须发生在持有行锁的事务内,且用条件UPDATE落库
//    (见Repository.Decrement),这是防超卖的最后一道闸
type Stock struct {
	ID        uint
	BookID    uint
	Quantity  int // 可售数量,恒>=0
	UpdatedAt time.Time
}

// CanFulfill 是否足够交付请求数量
func (s *Stock) CanFulfill(quantity int) bool {
	return s.Quantity >= quantity
}

// StockListing 库存管理列表项(联表图书标题)
type StockListing struct {
	StockID  uint   `json:"stock_id"` // 无库存记录时为0
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"` // 无库存记录时为0
}
