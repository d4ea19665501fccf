package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// cartRepository 购物车仓储实现(MySQL)
// 设计说明:
// 1. 写路径全部通过getDB(ctx)取DB,保证在TxManager.Transaction
//    内时自动参与事务
// 2. 读模型ViewByOwner联表books/genres/stocks一次拼出,避免N+1
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// FindByOwner 查车主的购物车(不含行)
func (r *cartRepository) FindByOwner(ctx context.Context, ownerID uint) (*cart.Cart, error) {
	var model CartModel
	err := getDB(ctx, r.db).Where("owner_id = ?", ownerID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 没有购物车是合法状态,不是错误
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	return &cart.Cart{
		ID:        model.ID,
		OwnerID:   model.OwnerID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// Create 为车主建车
// owner_id唯一索引兜底并发重复建车:撞索引时回读已有的车
func (r *cartRepository) Create(ctx context.Context, c *cart.Cart) error {
	model := &CartModel{OwnerID: c.OwnerID}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			existing, ferr := r.FindByOwner(ctx, c.OwnerID)
			if ferr != nil {
				return ferr
			}
			if existing != nil {
				*c = *existing
				return nil
			}
		}
		return apperrors.Wrap(err, "创建购物车失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt

	return nil
}

// FindItem 查购物车中某本书的行
func (r *cartRepository) FindItem(ctx context.Context, cartID, bookID uint) (*cart.Item, error) {
	var model CartItemModel
	err := getDB(ctx, r.db).
		Where("cart_id = ? AND book_id = ?", cartID, bookID).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询购物车行失败")
	}

	return toCartItemEntity(&model), nil
}

// Items 购物车全部行,按book_id升序
// 结账按此顺序锁库存,固定加锁顺序避免事务间死锁
func (r *cartRepository) Items(ctx context.Context, cartID uint) ([]cart.Item, error) {
	var models []CartItemModel
	err := getDB(ctx, r.db).
		Where("cart_id = ?", cartID).
		Order("book_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车行失败")
	}

	items := make([]cart.Item, len(models))
	for i := range models {
		items[i] = *toCartItemEntity(&models[i])
	}
	return items, nil
}

// CreateItem 新增行
func (r *cartRepository) CreateItem(ctx context.Context, item *cart.Item) error {
	model := &CartItemModel{
		CartID:    item.CartID,
		BookID:    item.BookID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			// 并发加购撞了(cart_id, book_id)唯一索引
			return apperrors.ErrConflict
		}
		return apperrors.Wrap(err, "添加购物车行失败")
	}

	item.ID = model.ID
	return nil
}

// IncrementItemQuantity 行数量原子累加
// UPDATE cart_items SET quantity = quantity + ? WHERE id = ?
// 累加在数据库侧完成,并发合并同一行时在行锁上串行,互不覆盖
func (r *cartRepository) IncrementItemQuantity(ctx context.Context, itemID uint, delta int) error {
	result := getDB(ctx, r.db).Model(&CartItemModel{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", delta))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车行失败")
	}

	if result.RowsAffected == 0 {
		return cart.ErrItemNotFound
	}

	return nil
}

// DecrementItemQuantity 行数量原子减1,减到0删行
// 先条件UPDATE(quantity > 1);未命中说明数量恰为1,改走条件DELETE。
// 两条语句各自原子,并发减件在行锁上串行后重新判定条件
func (r *cartRepository) DecrementItemQuantity(ctx context.Context, itemID uint) (bool, error) {
	db := getDB(ctx, r.db)

	result := db.Model(&CartItemModel{}).
		Where("id = ? AND quantity > 1", itemID).
		Update("quantity", gorm.Expr("quantity - 1"))
	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, "更新购物车行失败")
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	del := db.Where("id = ? AND quantity = 1", itemID).Delete(&CartItemModel{})
	if del.Error != nil {
		return false, apperrors.Wrap(del.Error, "删除购物车行失败")
	}
	if del.RowsAffected == 0 {
		return false, cart.ErrItemNotFound
	}
	return true, nil
}

// ClearItems 清空购物车全部行(购物车本体保留)
func (r *cartRepository) ClearItems(ctx context.Context, cartID uint) error {
	err := getDB(ctx, r.db).
		Where("cart_id = ?", cartID).
		Delete(&CartItemModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}

// TotalUnits 车内商品总件数
func (r *cartRepository) TotalUnits(ctx context.Context, ownerID uint) (int, error) {
	var total int64
	err := getDB(ctx, r.db).Model(&CartItemModel{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id AND carts.deleted_at IS NULL").
		Where("carts.owner_id = ?", ownerID).
		Select("COALESCE(SUM(cart_items.quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计购物车件数失败")
	}
	return int(total), nil
}

// cartItemRow 购物车读模型联表结果
type cartItemRow struct {
	BookID     uint
	Title      string
	Author     string
	Genre      string
	CoverImage string
	Quantity   int
	UnitPrice  int64
	Available  int
}

// ViewByOwner 购物车读模型(行+图书+类别+当前库存)
func (r *cartRepository) ViewByOwner(ctx context.Context, ownerID uint) (*cart.View, error) {
	c, err := r.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return cart.EmptyView(), nil
	}

	var rows []cartItemRow
	err = getDB(ctx, r.db).Model(&CartItemModel{}).
		Select(`cart_items.book_id, books.title, books.author,
			genres.name AS genre, books.cover_image,
			cart_items.quantity, cart_items.unit_price,
			COALESCE(stocks.quantity, 0) AS available`).
		Joins("JOIN books ON books.id = cart_items.book_id").
		Joins("LEFT JOIN genres ON genres.id = books.genre_id").
		Joins("LEFT JOIN stocks ON stocks.book_id = cart_items.book_id").
		Where("cart_items.cart_id = ?", c.ID).
		Order("cart_items.book_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车明细失败")
	}

	view := &cart.View{
		CartID: c.ID,
		Items:  make([]cart.ItemView, len(rows)),
	}
	for i, row := range rows {
		view.Items[i] = cart.ItemView{
			BookID:     row.BookID,
			Title:      row.Title,
			Author:     row.Author,
			Genre:      row.Genre,
			CoverImage: row.CoverImage,
			Quantity:   row.Quantity,
			UnitPrice:  row.UnitPrice,
			Subtotal:   row.UnitPrice * int64(row.Quantity),
			Available:  row.Available,
		}
		view.TotalUnits += row.Quantity
		view.TotalCents += view.Items[i].Subtotal
	}

	return view, nil
}

// toCartItemEntity GORM模型 → 领域实体
func toCartItemEntity(model *CartItemModel) *cart.Item {
	return &cart.Item{
		ID:        model.ID,
		CartID:    model.CartID,
		BookID:    model.BookID,
		Quantity:  model.Quantity,
		UnitPrice: model.UnitPrice,
	}
}
