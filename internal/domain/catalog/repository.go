package catalog

import (
	"context"
)

// BookRepository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type BookRepository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表(关键词/类别过滤+排序)
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// CountByGenre 统计类别下的图书数量(删除类别前校验)
	CountByGenre(ctx context.Context, genreID uint) (int64, error)
}

// GenreRepository 类别仓储接口
type GenreRepository interface {
	// Create 创建类别(重名返回ErrGenreDuplicate)
	Create(ctx context.Context, genre *Genre) error

	// FindByID 根据ID查找类别
	FindByID(ctx context.Context, id uint) (*Genre, error)

	// List 全部类别(数量有限,不分页)
	List(ctx context.Context) ([]*Genre, error)

	// Update 更新类别
	Update(ctx context.Context, genre *Genre) error

	// Delete 删除类别
	Delete(ctx context.Context, id uint) error
}
