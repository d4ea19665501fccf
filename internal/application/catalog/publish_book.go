package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/inventory"
)

// PublishBookUseCase 图书上架用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO(Data Transfer Object),与HTTP层解耦
// 3. 上架可选带初始库存,库存写入inventory聚合而非Book实体
type PublishBookUseCase struct {
	catalogService catalog.Service
	stockRepo      inventory.Repository
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(catalogService catalog.Service, stockRepo inventory.Repository) *PublishBookUseCase {
	return &PublishBookUseCase{
		catalogService: catalogService,
		stockRepo:      stockRepo,
	}
}

// Execute 执行上架用例
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookDetail, error) {
	// 业务规则校验(ISBN格式、价格、类别存在性)由领域服务负责
	b, err := uc.catalogService.PublishBook(ctx, req.ISBN, req.Title, req.Author,
		req.Price, req.GenreID, req.CoverImage, req.Description)
	if err != nil {
		return nil, err
	}

	// 初始库存(可选):失败不回滚图书,管理端可以事后补录
	stock := 0
	if req.InitialStock > 0 {
		if err := uc.stockRepo.Upsert(ctx, b.ID, req.InitialStock); err == nil {
			stock = req.InitialStock
		}
	}

	resp := toBookDetail(b)
	resp.Stock = stock
	return resp, nil
}

// =========================================
// 应用层DTO
// =========================================

// PublishBookRequest 上架请求DTO
type PublishBookRequest struct {
	ISBN         string // ISBN号(10或13位)
	Title        string // 书名
	Author       string // 作者
	Price        int64  // 价格(分)
	GenreID      uint   // 类别ID
	CoverImage   string // 封面图片文件名
	Description  string // 图书描述
	InitialStock int    // 初始库存(可选)
}

// BookDetail 图书详情DTO
type BookDetail struct {
	ID          uint   `json:"id"`
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Price       int64  `json:"price"` // 价格(分)
	GenreID     uint   `json:"genre_id"`
	GenreName   string `json:"genre_name"`
	CoverImage  string `json:"cover_image"`
	Description string `json:"description"`
	Stock       int    `json:"stock"`
	CreatedAt   string `json:"created_at"`
}

func toBookDetail(b *catalog.Book) *BookDetail {
	return &BookDetail{
		ID:          b.ID,
		ISBN:        b.ISBN,
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		GenreID:     b.GenreID,
		GenreName:   b.GenreName,
		CoverImage:  b.CoverImage,
		Description: b.Description,
		CreatedAt:   b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
