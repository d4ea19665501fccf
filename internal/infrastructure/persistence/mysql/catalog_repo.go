package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/catalog/repository.go定义的BookRepository接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如ISBN重复),转换为业务错误
// 4. 读取时联表填充类别名称(展示字段)
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) catalog.BookRepository {
	return &bookRepository{db: db}
}

// bookRow 联表查询结果(图书+类别名)
type bookRow struct {
	BookModel
	GenreName string
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *catalog.Book) error {
	model := &BookModel{
		ISBN:        b.ISBN,
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		CoverImage:  b.CoverImage,
		Description: b.Description,
		GenreID:     b.GenreID,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return catalog.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书(含类别名)
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*catalog.Book, error) {
	var row bookRow
	err := r.db.WithContext(ctx).Model(&BookModel{}).
		Select("books.*, genres.name AS genre_name").
		Joins("LEFT JOIN genres ON genres.id = books.genre_id").
		Where("books.id = ?", id).
		First(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&row), nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*catalog.Book, error) {
	var row bookRow
	err := r.db.WithContext(ctx).Model(&BookModel{}).
		Select("books.*, genres.name AS genre_name").
		Joins("LEFT JOIN genres ON genres.id = books.genre_id").
		Where("books.isbn = ?", isbn).
		First(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&row), nil
}

// Update 更新图书信息
func (r *bookRepository) Update(ctx context.Context, b *catalog.Book) error {
	model := &BookModel{
		ID:          b.ID,
		ISBN:        b.ISBN,
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		CoverImage:  b.CoverImage,
		Description: b.Description,
		GenreID:     b.GenreID,
	}

	// 使用Save更新所有字段
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return catalog.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书(软删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&BookModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}

	if result.RowsAffected == 0 {
		return catalog.ErrBookNotFound
	}

	return nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params catalog.ListParams) ([]*catalog.Book, int64, error) {
	var rows []bookRow
	var total int64

	query := r.db.WithContext(ctx).Model(&BookModel{}).
		Joins("LEFT JOIN genres ON genres.id = books.genre_id")

	// 关键词搜索(标题、作者)
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("books.title LIKE ? OR books.author LIKE ?", keyword, keyword)
	}

	// 类别过滤
	if params.GenreID > 0 {
		query = query.Where("books.genre_id = ?", params.GenreID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	switch params.SortBy {
	case "price_asc":
		query = query.Order("books.price ASC")
	case "price_desc":
		query = query.Order("books.price DESC")
	case "title_asc":
		query = query.Order("books.title ASC")
	default:
		query = query.Order("books.created_at DESC") // 默认按创建时间降序
	}

	offset := (params.Page - 1) * params.PageSize
	query = query.Limit(params.PageSize).Offset(offset)

	if err := query.Select("books.*, genres.name AS genre_name").Find(&rows).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*catalog.Book, len(rows))
	for i := range rows {
		books[i] = toBookEntity(&rows[i])
	}

	return books, total, nil
}

// CountByGenre 统计类别下的图书数量
func (r *bookRepository) CountByGenre(ctx context.Context, genreID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BookModel{}).
		Where("genre_id = ?", genreID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计类别图书数失败")
	}
	return count, nil
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(row *bookRow) *catalog.Book {
	return &catalog.Book{
		ID:          row.ID,
		ISBN:        row.ISBN,
		Title:       row.Title,
		Author:      row.Author,
		Price:       row.Price,
		CoverImage:  row.CoverImage,
		Description: row.Description,
		GenreID:     row.GenreID,
		GenreName:   row.GenreName,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// =========================================
// 类别仓储
// =========================================

// genreRepository 类别仓储实现(MySQL)
type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository 创建类别仓储
func NewGenreRepository(db *gorm.DB) catalog.GenreRepository {
	return &genreRepository{db: db}
}

// Create 创建类别
func (r *genreRepository) Create(ctx context.Context, g *catalog.Genre) error {
	model := &GenreModel{Name: g.Name}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return catalog.ErrGenreDuplicate
		}
		return apperrors.Wrap(err, "创建类别失败")
	}

	g.ID = model.ID
	g.CreatedAt = model.CreatedAt
	g.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找类别
func (r *genreRepository) FindByID(ctx context.Context, id uint) (*catalog.Genre, error) {
	var model GenreModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrGenreNotFound
		}
		return nil, apperrors.Wrap(err, "查询类别失败")
	}

	return toGenreEntity(&model), nil
}

// List 全部类别(按名称排序)
func (r *genreRepository) List(ctx context.Context) ([]*catalog.Genre, error) {
	var models []GenreModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询类别列表失败")
	}

	genres := make([]*catalog.Genre, len(models))
	for i := range models {
		genres[i] = toGenreEntity(&models[i])
	}
	return genres, nil
}

// Update 更新类别
func (r *genreRepository) Update(ctx context.Context, g *catalog.Genre) error {
	var model GenreModel
	if err := r.db.WithContext(ctx).First(&model, g.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.ErrGenreNotFound
		}
		return apperrors.Wrap(err, "查询类别失败")
	}

	model.Name = g.Name
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		if isDuplicateError(err) {
			return catalog.ErrGenreDuplicate
		}
		return apperrors.Wrap(err, "更新类别失败")
	}

	g.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除类别
// 注意:类别下是否仍有图书由应用层先行校验(CountByGenre)
func (r *genreRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&GenreModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除类别失败")
	}

	if result.RowsAffected == 0 {
		return catalog.ErrGenreNotFound
	}

	return nil
}

// toGenreEntity GORM模型 → 领域实体
func toGenreEntity(model *GenreModel) *catalog.Genre {
	return &catalog.Genre{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
