package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// UpdateBookUseCase 图书更新用例(管理端)
type UpdateBookUseCase struct {
	catalogService catalog.Service
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(catalogService catalog.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{catalogService: catalogService}
}

// Execute 执行更新
// 说明:零值字段表示不修改;改价不影响已有购物车/订单行的快照价
func (uc *UpdateBookUseCase) Execute(ctx context.Context, bookID uint, req UpdateBookRequest) (*BookDetail, error) {
	b, err := uc.catalogService.UpdateBook(ctx, bookID, req.Title, req.Author,
		req.Description, req.GenreID, req.Price, req.CoverImage)
	if err != nil {
		return nil, err
	}
	return toBookDetail(b), nil
}

// DeleteBookUseCase 图书下架用例(管理端)
// 说明:软删除。历史订单行仍可通过Unscoped查询展示书名
type DeleteBookUseCase struct {
	catalogService catalog.Service
}

// NewDeleteBookUseCase 创建下架用例
func NewDeleteBookUseCase(catalogService catalog.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{catalogService: catalogService}
}

// Execute 执行下架
func (uc *DeleteBookUseCase) Execute(ctx context.Context, bookID uint) error {
	return uc.catalogService.DeleteBook(ctx, bookID)
}

// =========================================
// 应用层DTO
// =========================================

// UpdateBookRequest 更新请求DTO(零值字段不修改)
type UpdateBookRequest struct {
	Title       string
	Author      string
	Description string
	GenreID     uint
	Price       int64 // 0表示不改价
	CoverImage  string
}
