package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/inventory"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持分页、关键词搜索(标题/作者)、类别过滤、排序
// 2. 列表项不返回description字段(减少数据传输量)
type ListBooksUseCase struct {
	catalogService catalog.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(catalogService catalog.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		catalogService: catalogService,
	}
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	// 2. 查询
	books, total, err := uc.catalogService.ListBooks(ctx, catalog.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		GenreID:  req.GenreID,
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	// 3. 转换为DTO
	list := make([]BookListItem, len(books))
	for i, b := range books {
		list[i] = BookListItem{
			ID:         b.ID,
			ISBN:       b.ISBN,
			Title:      b.Title,
			Author:     b.Author,
			Price:      b.Price,
			GenreID:    b.GenreID,
			GenreName:  b.GenreName,
			CoverImage: b.CoverImage,
			CreatedAt:  b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	// 4. 计算总页数
	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetBookUseCase 图书详情查询用例
type GetBookUseCase struct {
	catalogService catalog.Service
	stockRepo      inventory.Repository
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(catalogService catalog.Service, stockRepo inventory.Repository) *GetBookUseCase {
	return &GetBookUseCase{
		catalogService: catalogService,
		stockRepo:      stockRepo,
	}
}

// Execute 执行详情查询
// 说明:详情页附带当前可售库存(展示用,不做预留)
func (uc *GetBookUseCase) Execute(ctx context.Context, bookID uint) (*BookDetail, error) {
	b, err := uc.catalogService.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	resp := toBookDetail(b)

	stock, err := uc.stockRepo.FindByBookID(ctx, bookID)
	if err == nil && stock != nil {
		resp.Stock = stock.Quantity
	}
	return resp, nil
}

// =========================================
// 应用层DTO
// =========================================

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(标题、作者)
	GenreID  uint   // 按类别过滤(0表示不过滤)
	SortBy   string // 排序方式(price_asc, price_desc, title_asc)
}

// BookListItem 列表项DTO(不含description)
type BookListItem struct {
	ID         uint   `json:"id"`
	ISBN       string `json:"isbn"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Price      int64  `json:"price"` // 价格(分)
	GenreID    uint   `json:"genre_id"`
	GenreName  string `json:"genre_name"`
	CoverImage string `json:"cover_image"`
	CreatedAt  string `json:"created_at"`
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookListItem `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}
