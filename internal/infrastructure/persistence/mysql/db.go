package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			// 全系统统一UTC时间戳
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&GenreModel{},
		&BookModel{},
		&StockModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
// 4. ExternalID是认证主体标识(JWT Subject)，与内部自增ID解耦
type UserModel struct {
	ID         uint           `gorm:"primaryKey"`
	ExternalID string         `gorm:"uniqueIndex;size:64;not null;comment:外部认证标识"`
	Email      string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password   string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Name       string         `gorm:"size:100;not null;comment:姓名"`
	Address    string         `gorm:"size:255;comment:地址"`
	PostalCode string         `gorm:"size:20;comment:邮编"`
	Country    string         `gorm:"size:50;comment:国家"`
	Phone      string         `gorm:"size:30;comment:电话"`
	TaxID      string         `gorm:"size:30;comment:税号"`
	Role       string         `gorm:"size:20;not null;default:user;comment:角色(user/admin)"`
	CreatedAt  time.Time      `gorm:"comment:创建时间"`
	UpdatedAt  time.Time      `gorm:"comment:更新时间"`
	DeletedAt  gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// GenreModel GORM图书类别模型
type GenreModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:100;not null;comment:类别名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (GenreModel) TableName() string {
	return "genres"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. ISBN有唯一索引,防止重复
// 3. 库存独立到StockModel,图书表不含数量字段
// 4. 添加复合索引优化列表查询性能
type BookModel struct {
	ID          uint           `gorm:"primaryKey"`
	ISBN        string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title       string         `gorm:"index:idx_search;size:200;not null;comment:书名"` // 搜索索引
	Author      string         `gorm:"index:idx_search;size:100;not null;comment:作者"` // 搜索索引
	Price       int64          `gorm:"index:idx_list;not null;comment:价格(分)"` // 排序索引
	CoverImage  string         `gorm:"size:500;comment:封面图片URL"`
	Description string         `gorm:"type:text;comment:图书描述"`
	GenreID     uint           `gorm:"index;not null;comment:类别ID"`
	CreatedAt   time.Time      `gorm:"index:idx_list;comment:创建时间"` // 排序索引
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// StockModel GORM库存模型
// 设计说明:
// 1. 与图书一对一,BookID唯一索引
// 2. Quantity恒>=0,由结账事务内的条件UPDATE保证
type StockModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"uniqueIndex;not null;comment:图书ID"`
	Quantity  int       `gorm:"not null;default:0;comment:库存数量"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (StockModel) TableName() string {
	return "stocks"
}

// CartModel GORM购物车模型
// 设计说明:
// 1. 每个用户至多一个活跃购物车(OwnerID唯一索引)
// 2. 结账只清空购物车行,购物车本体保留复用
type CartModel struct {
	ID        uint            `gorm:"primaryKey"`
	OwnerID   uint            `gorm:"uniqueIndex;not null;comment:用户ID"`
	Items     []CartItemModel `gorm:"foreignKey:CartID"`
	CreatedAt time.Time       `gorm:"comment:创建时间"`
	UpdatedAt time.Time       `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt  `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel GORM购物车行模型
// 设计说明:
// 1. (cart_id, book_id)复合唯一索引,同一本书只有一行,加购合并数量
// 2. UnitPrice是首次加购时的快照价(分)
type CartItemModel struct {
	ID        uint      `gorm:"primaryKey"`
	CartID    uint      `gorm:"uniqueIndex:idx_cart_book;not null;comment:购物车ID"`
	BookID    uint      `gorm:"uniqueIndex:idx_cart_book;not null;comment:图书ID"`
	Quantity  int       `gorm:"not null;comment:数量(恒>=1)"`
	UnitPrice int64     `gorm:"not null;comment:加购时单价快照(分)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel GORM订单模型
// 设计说明:
// 1. 与OrderItemModel是一对多关系
// 2. Reference有唯一索引(对外展示的业务单号)
// 3. Status使用int存储(节省空间,便于索引)
type OrderModel struct {
	ID            uint             `gorm:"primaryKey"`
	Reference     string           `gorm:"uniqueIndex;size:32;not null;comment:订单参考号"`
	BuyerID       uint             `gorm:"index;not null;comment:买家用户ID"`
	PaymentMethod string           `gorm:"size:20;not null;comment:支付方式"`
	Paid          bool             `gorm:"not null;default:false;comment:是否已支付"`
	Status        int              `gorm:"index;type:tinyint;default:1;comment:订单状态(1待处理2已发货3已送达4已取消)"`
	Total         int64            `gorm:"not null;comment:订单总金额(分)"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt     time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time        `gorm:"comment:更新时间"`
	DeletedAt     gorm.DeletedAt   `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// UnitPrice复制自购物车行快照价,图书后续改价不影响历史订单
type OrderItemModel struct {
	ID        uint  `gorm:"primaryKey"`
	OrderID   uint  `gorm:"index;not null;comment:订单ID"`
	BookID    uint  `gorm:"index;not null;comment:图书ID"`
	Quantity  int   `gorm:"not null;comment:购买数量"`
	UnitPrice int64 `gorm:"not null;comment:下单时单价(分)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}
