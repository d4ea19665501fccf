package catalog

import (
	"context"
	"regexp"
	"strings"
)

// Service 目录领域服务
// 设计说明:
// 1. 跨实体的业务规则放在Service(处理ISBN校验、类别存在性、删除约束)
// 2. Service依赖Repository接口,不依赖具体实现(依赖倒置)
type Service interface {
	// PublishBook 上架图书
	PublishBook(ctx context.Context, isbn, title, author string, price int64, genreID uint, coverImage, description string) (*Book, error)

	// UpdateBook 更新图书信息(字段为空表示不修改)
	UpdateBook(ctx context.Context, id uint, title, author, description string, genreID uint, price int64, coverImage string) (*Book, error)

	// DeleteBook 下架图书(软删除,历史订单行不受影响)
	DeleteBook(ctx context.Context, id uint) error

	// GetBook 查询图书详情
	GetBook(ctx context.Context, id uint) (*Book, error)

	// ListBooks 分页查询图书
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// CreateGenre 新建类别
	CreateGenre(ctx context.Context, name string) (*Genre, error)

	// ListGenres 全部类别
	ListGenres(ctx context.Context) ([]*Genre, error)

	// RenameGenre 重命名类别
	RenameGenre(ctx context.Context, id uint, name string) (*Genre, error)

	// DeleteGenre 删除类别(类别下有图书则拒绝)
	DeleteGenre(ctx context.Context, id uint) error
}

type service struct {
	bookRepo  BookRepository
	genreRepo GenreRepository
}

// NewService 创建目录服务
func NewService(bookRepo BookRepository, genreRepo GenreRepository) Service {
	return &service{bookRepo: bookRepo, genreRepo: genreRepo}
}

// PublishBook 上架图书
// 业务规则:
// 1. ISBN格式校验(10位或13位)
// 2. 价格必须>0(单位:分)
// 3. 类别必须存在
// 4. ISBN唯一性由数据库UNIQUE索引保证
func (s *service) PublishBook(ctx context.Context, isbn, title, author string, price int64, genreID uint, coverImage, description string) (*Book, error) {
	isbn = normalizeISBN(isbn)
	if !isValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	if _, err := s.genreRepo.FindByID(ctx, genreID); err != nil {
		return nil, err // ErrGenreNotFound
	}

	b := NewBook(isbn, title, author, price, genreID, coverImage, description)
	if err := s.bookRepo.Create(ctx, b); err != nil {
		return nil, err // Repository已转换为ErrISBNDuplicate
	}
	return b, nil
}

// UpdateBook 更新图书
// 业务规则:改价只影响后续加购,已在购物车/订单中的快照价不变
func (s *service) UpdateBook(ctx context.Context, id uint, title, author, description string, genreID uint, price int64, coverImage string) (*Book, error) {
	b, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if genreID != 0 && genreID != b.GenreID {
		if _, err := s.genreRepo.FindByID(ctx, genreID); err != nil {
			return nil, err
		}
	}

	b.UpdateInfo(title, author, description, genreID)
	if price != 0 {
		if err := b.UpdatePrice(price); err != nil {
			return nil, err
		}
	}
	if coverImage != "" {
		b.CoverImage = coverImage
	}

	if err := s.bookRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBook 下架图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	return s.bookRepo.Delete(ctx, id)
}

// GetBook 查询图书详情
func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.bookRepo.FindByID(ctx, id)
}

// ListBooks 分页查询图书
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.bookRepo.List(ctx, params)
}

// CreateGenre 新建类别
func (s *service) CreateGenre(ctx context.Context, name string) (*Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidGenreName
	}
	g := NewGenre(name)
	if err := s.genreRepo.Create(ctx, g); err != nil {
		return nil, err // ErrGenreDuplicate
	}
	return g, nil
}

// ListGenres 全部类别
func (s *service) ListGenres(ctx context.Context) ([]*Genre, error) {
	return s.genreRepo.List(ctx)
}

// RenameGenre 重命名类别
func (s *service) RenameGenre(ctx context.Context, id uint, name string) (*Genre, error) {
	g, err := s.genreRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.Rename(strings.TrimSpace(name)); err != nil {
		return nil, err
	}
	if err := s.genreRepo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGenre 删除类别
// 业务规则:类别被图书引用时拒绝删除(ErrGenreInUse)
func (s *service) DeleteGenre(ctx context.Context, id uint) error {
	count, err := s.bookRepo.CountByGenre(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrGenreInUse
	}
	return s.genreRepo.Delete(ctx, id)
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

var isbnPattern = regexp.MustCompile(`^(\d{13}|\d{9}[\dXx])$`)

// normalizeISBN 去除ISBN中的连字符和空格
func normalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(isbn, " ", "")
}

// isValidISBN ISBN格式校验(10位或13位,不做校验位计算)
func isValidISBN(isbn string) bool {
	return isbnPattern.MatchString(isbn)
}
