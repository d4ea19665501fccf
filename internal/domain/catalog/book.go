package catalog

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是商品目录聚合的根实体,由管理端CRUD维护
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. GenreID关联图书类别(每本书必须属于一个类别)
// 4. 库存不在Book上:可售数量是独立的inventory聚合,
//    购物车/下单对价格的引用是"加入购物车时的快照",互不干扰
type Book struct {
	ID          uint
	ISBN        string // ISBN号(国际标准书号)
	Title       string // 书名
	Author      string // 作者
	Price       int64  // 价格(单位:分,1元=100分)
	CoverImage  string // 封面图片文件名(存取由文件服务负责)
	Description string // 图书描述
	GenreID     uint   // 所属类别ID
	GenreName   string // 类别名称(读取时联表填充,写入时忽略)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook 创建新图书(工厂方法)
func NewBook(isbn, title, author string, price int64, genreID uint, coverImage, description string) *Book {
	now := time.Now().UTC()
	return &Book{
		ISBN:        isbn,
		Title:       title,
		Author:      author,
		Price:       price,
		CoverImage:  coverImage,
		Description: description,
		GenreID:     genreID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格必须>0。改价不影响已有购物车行/订单行的快照价
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateInfo 更新图书基本信息
func (b *Book) UpdateInfo(title, author, description string, genreID uint) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if description != "" {
		b.Description = description
	}
	if genreID != 0 {
		b.GenreID = genreID
	}
	b.UpdatedAt = time.Now().UTC()
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(搜索标题、作者)
	GenreID  uint   // 按类别过滤(0表示不过滤)
	SortBy   string // 排序字段(price_asc, price_desc, created_at_desc)
}
