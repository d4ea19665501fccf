package dto

// PublishBookRequest HTTP上架请求
// 说明：价格以"分"为单位传入（避免浮点数），由客户端换算
type PublishBookRequest struct {
	ISBN         string `json:"isbn" binding:"required"`
	Title        string `json:"title" binding:"required,max=200"`
	Author       string `json:"author" binding:"required,max=100"`
	Price        int64  `json:"price" binding:"required,gt=0"`
	GenreID      uint   `json:"genre_id" binding:"required"`
	CoverImage   string `json:"cover_image" binding:"max=255"`
	Description  string `json:"description" binding:"max=2000"`
	InitialStock int    `json:"initial_stock" binding:"gte=0"`
}

// UpdateBookRequest HTTP更新请求（零值字段不修改）
type UpdateBookRequest struct {
	Title       string `json:"title" binding:"max=200"`
	Author      string `json:"author" binding:"max=100"`
	Price       int64  `json:"price" binding:"gte=0"` // 0表示不改价
	GenreID     uint   `json:"genre_id"`
	CoverImage  string `json:"cover_image" binding:"max=255"`
	Description string `json:"description" binding:"max=2000"`
}

// ListBooksQuery 列表查询参数（query string）
type ListBooksQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Keyword  string `form:"keyword"`
	GenreID  uint   `form:"genre_id"`
	SortBy   string `form:"sort_by"` // price_asc | price_desc | title_asc
}

// GenreRequest 类别创建/重命名请求
type GenreRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// SetStockRequest 设置库存请求
type SetStockRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

// StockListQuery 库存列表查询参数
type StockListQuery struct {
	Term string `form:"term"` // 标题前缀过滤
}
