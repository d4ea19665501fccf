package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshop/internal/domain/inventory"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// inventoryRepository 库存仓储实现(MySQL)
// 防超卖实现:
// 1. LockByBookID用SELECT FOR UPDATE锁行(事务内串行化同书结账)
// 2. Decrement用条件UPDATE(quantity >= ?)并检查受影响行数,
//    任何路径下都不会把库存扣成负数
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &inventoryRepository{db: db}
}

// FindByBookID 查图书库存
func (r *inventoryRepository) FindByBookID(ctx context.Context, bookID uint) (*inventory.Stock, error) {
	var model StockModel
	err := getDB(ctx, r.db).Where("book_id = ?", bookID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询库存失败")
	}

	return toStockEntity(&model), nil
}

// LockByBookID 悲观锁查库存行
// 必须在事务context内调用,SELECT FOR UPDATE才有意义
func (r *inventoryRepository) LockByBookID(ctx context.Context, bookID uint) (*inventory.Stock, error) {
	var model StockModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("book_id = ?", bookID).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "锁定库存失败")
	}

	return toStockEntity(&model), nil
}

// Decrement 条件扣减库存
// UPDATE stocks SET quantity = quantity - ? WHERE book_id = ? AND quantity >= ?
// 受影响行数为0说明无库存记录或库存不足,回读一次区分原因
func (r *inventoryRepository) Decrement(ctx context.Context, bookID uint, quantity int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&StockModel{}).
		Where("book_id = ?", bookID).
		Where("quantity >= ?", quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "扣减库存失败")
	}

	if result.RowsAffected == 0 {
		var model StockModel
		if err := db.Where("book_id = ?", bookID).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return inventory.NewStockNotFound(bookID)
			}
			return apperrors.Wrap(err, "查询库存失败")
		}
		// 记录存在,说明是库存不足
		return inventory.NewInsufficientStock(bookID, quantity, model.Quantity)
	}

	return nil
}

// Upsert 管理端设置库存
// 无记录则建,有则覆盖数量(不是增量)
func (r *inventoryRepository) Upsert(ctx context.Context, bookID uint, quantity int) error {
	model := &StockModel{BookID: bookID, Quantity: quantity}
	err := getDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "book_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"quantity": quantity}),
		}).
		Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "设置库存失败")
	}
	return nil
}

// stockRow 库存管理列表联表结果
type stockRow struct {
	StockID  uint
	BookID   uint
	Title    string
	Quantity int
}

// ListWithBook 库存管理列表(联表书名)
// term为标题前缀过滤,空串返回全部。
// 从books侧LEFT JOIN:没有库存记录的图书也要出现在列表里,
// 数量按0显示(stock_id为0说明还没建记录)
func (r *inventoryRepository) ListWithBook(ctx context.Context, term string) ([]inventory.StockListing, error) {
	query := getDB(ctx, r.db).Model(&BookModel{}).
		Select(`COALESCE(stocks.id, 0) AS stock_id, books.id AS book_id,
			books.title, COALESCE(stocks.quantity, 0) AS quantity`).
		Joins("LEFT JOIN stocks ON stocks.book_id = books.id")

	if term != "" {
		query = query.Where("books.title LIKE ?", term+"%")
	}

	var rows []stockRow
	if err := query.Order("books.title ASC").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询库存列表失败")
	}

	listings := make([]inventory.StockListing, len(rows))
	for i, row := range rows {
		listings[i] = inventory.StockListing{
			StockID:  row.StockID,
			BookID:   row.BookID,
			Title:    row.Title,
			Quantity: row.Quantity,
		}
	}
	return listings, nil
}

// toStockEntity GORM模型 → 领域实体
func toStockEntity(model *StockModel) *inventory.Stock {
	return &inventory.Stock{
		ID:        model.ID,
		BookID:    model.BookID,
		Quantity:  model.Quantity,
		UpdatedAt: model.UpdatedAt,
	}
}
