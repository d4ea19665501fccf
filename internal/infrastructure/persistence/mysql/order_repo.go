package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 设计说明:
// 1. Order和OrderItem是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. Create在结账事务内调用,通过getDB从context获取事务DB
// 4. 软删除由gorm.DeletedAt自动过滤,读取侧无需显式条件
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单
// GORM通过foreignKey自动保存关联的Items
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	// 回填自增ID
	o.ID = model.ID
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}

	return nil
}

// FindByID 根据ID查找订单(含明细与展示字段)
// Preload("Items")会执行:
// 1. SELECT * FROM orders WHERE id = ?
// 2. SELECT * FROM order_items WHERE order_id IN (?)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	db := getDB(ctx, r.db)

	err := db.Preload("Items").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	o := toOrderEntity(&model)
	if err := r.fillDisplayFields(ctx, []*order.Order{o}); err != nil {
		return nil, err
	}

	return o, nil
}

// List 分页查询订单
func (r *orderRepository) List(ctx context.Context, params order.ListParams) ([]*order.Order, int64, error) {
	var models []OrderModel
	var total int64

	query := getDB(ctx, r.db).Model(&OrderModel{})
	if !params.IncludeAll {
		query = query.Where("buyer_id = ?", params.BuyerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Preload("Items").
		Order("created_at DESC").
		Limit(params.PageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}

	if err := r.fillDisplayFields(ctx, orders); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Update 更新订单(支付标记与状态)
// 注意:不触碰订单明细,明细在创建后不可变
func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	result := getDB(ctx, r.db).Model(&OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"paid":       o.Paid,
			"status":     int(o.Status),
			"updated_at": o.UpdatedAt,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单失败")
	}

	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}

// fillDisplayFields 批量填充展示字段(买家姓名、书名、类别)
// 两次IN查询补齐,不用每行一次的联表
func (r *orderRepository) fillDisplayFields(ctx context.Context, orders []*order.Order) error {
	if len(orders) == 0 {
		return nil
	}

	db := getDB(ctx, r.db)

	buyerIDs := make([]uint, 0, len(orders))
	bookIDs := make([]uint, 0)
	for _, o := range orders {
		buyerIDs = append(buyerIDs, o.BuyerID)
		for _, item := range o.Items {
			bookIDs = append(bookIDs, item.BookID)
		}
	}

	type buyerRow struct {
		ID   uint
		Name string
	}
	var buyers []buyerRow
	if err := db.Model(&UserModel{}).
		Select("id, name").
		Where("id IN ?", buyerIDs).
		Scan(&buyers).Error; err != nil {
		return apperrors.Wrap(err, "查询买家信息失败")
	}
	buyerNames := make(map[uint]string, len(buyers))
	for _, b := range buyers {
		buyerNames[b.ID] = b.Name
	}

	type bookInfoRow struct {
		ID    uint
		Title string
		Genre string
	}
	bookInfo := make(map[uint]bookInfoRow)
	if len(bookIDs) > 0 {
		var books []bookInfoRow
		// Unscoped:历史订单要能显示已下架(软删)图书的书名
		if err := db.Unscoped().Model(&BookModel{}).
			Select("books.id, books.title, genres.name AS genre").
			Joins("LEFT JOIN genres ON genres.id = books.genre_id").
			Where("books.id IN ?", bookIDs).
			Scan(&books).Error; err != nil {
			return apperrors.Wrap(err, "查询图书信息失败")
		}
		for _, b := range books {
			bookInfo[b.ID] = b
		}
	}

	for _, o := range orders {
		o.BuyerName = buyerNames[o.BuyerID]
		for i := range o.Items {
			if info, ok := bookInfo[o.Items[i].BookID]; ok {
				o.Items[i].Title = info.Title
				o.Items[i].Genre = info.Genre
			}
		}
	}

	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toOrderModel 领域实体 → GORM模型
func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return &OrderModel{
		ID:            o.ID,
		Reference:     o.Reference,
		BuyerID:       o.BuyerID,
		PaymentMethod: o.PaymentMethod,
		Paid:          o.Paid,
		Status:        int(o.Status),
		Total:         o.Total,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) *order.Order {
	items := make([]order.Item, len(model.Items))
	for i, item := range model.Items {
		items[i] = order.Item{
			ID:        item.ID,
			OrderID:   item.OrderID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return &order.Order{
		ID:            model.ID,
		Reference:     model.Reference,
		BuyerID:       model.BuyerID,
		PaymentMethod: model.PaymentMethod,
		Paid:          model.Paid,
		Status:        order.Status(model.Status),
		Total:         model.Total,
		Items:         items,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
