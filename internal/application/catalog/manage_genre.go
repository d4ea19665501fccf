package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// GenreUseCase 类别管理用例(管理端CRUD)
// 类别是低频维护的参考数据,四个操作收在一个用例里
type GenreUseCase struct {
	catalogService catalog.Service
}

// NewGenreUseCase 创建类别管理用例
func NewGenreUseCase(catalogService catalog.Service) *GenreUseCase {
	return &GenreUseCase{catalogService: catalogService}
}

// Create 新建类别
func (uc *GenreUseCase) Create(ctx context.Context, name string) (*GenreDTO, error) {
	g, err := uc.catalogService.CreateGenre(ctx, name)
	if err != nil {
		return nil, err
	}
	return toGenreDTO(g), nil
}

// List 全部类别
func (uc *GenreUseCase) List(ctx context.Context) ([]GenreDTO, error) {
	genres, err := uc.catalogService.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]GenreDTO, len(genres))
	for i, g := range genres {
		list[i] = *toGenreDTO(g)
	}
	return list, nil
}

// Rename 重命名类别
func (uc *GenreUseCase) Rename(ctx context.Context, id uint, name string) (*GenreDTO, error) {
	g, err := uc.catalogService.RenameGenre(ctx, id, name)
	if err != nil {
		return nil, err
	}
	return toGenreDTO(g), nil
}

// Delete 删除类别(类别下有图书时返回ErrGenreInUse)
func (uc *GenreUseCase) Delete(ctx context.Context, id uint) error {
	return uc.catalogService.DeleteGenre(ctx, id)
}

// =========================================
// 应用层DTO
// =========================================

// GenreDTO 类别DTO
type GenreDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func toGenreDTO(g *catalog.Genre) *GenreDTO {
	return &GenreDTO{ID: g.ID, Name: g.Name}
}
