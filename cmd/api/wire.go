//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// Wire是编译期依赖注入工具：
// Step 1: 编写本文件，定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	appcheckout "github.com/xiebiao/bookshop/internal/application/checkout"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/messaging/rabbitmq"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/jwt"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewGenreRepository,
	mysql.NewCartRepository,
	mysql.NewInventoryRepository,
	mysql.NewOrderRepository,
	mysql.NewTxManager,
	wire.Bind(new(appcheckout.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
	catalog.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewProfileUseCase,
	appcatalog.NewListBooksUseCase,
	appcatalog.NewGetBookUseCase,
	appcatalog.NewPublishBookUseCase,
	appcatalog.NewUpdateBookUseCase,
	appcatalog.NewDeleteBookUseCase,
	appcatalog.NewGenreUseCase,
	appcatalog.NewStockUseCase,
	appcart.NewGetCartUseCase,
	appcart.NewBadgeUseCase,
	appcart.NewAddItemUseCase,
	appcart.NewRemoveItemUseCase,
	appcheckout.NewUseCase,
	apporder.NewListOrdersUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewUpdateStatusUseCase,
	apporder.NewTogglePaymentUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	provideCartCache,
	provideEventPublisher,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewGenreHandler,
	handler.NewStockHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideCartCache 从Redis客户端创建购物车角标缓存
func provideCartCache(client *goredis.Client) *redis.CartCache {
	return redis.NewCartCache(client)
}

// provideEventPublisher 按配置创建事件发布者
// 未启用RabbitMQ时给空实现，结账路径不感知差异
func provideEventPublisher(cfg *config.Config) (order.EventPublisher, error) {
	if !cfg.RabbitMQ.Enabled {
		return rabbitmq.NopPublisher{}, nil
	}
	return rabbitmq.NewPublisher(cfg.RabbitMQ)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	genreHandler *handler.GenreHandler,
	stockHandler *handler.StockHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	registerRoutes(r, userHandler, bookHandler, genreHandler, stockHandler, cartHandler, orderHandler, authMiddleware)

	return r
}

// InitializeApp 初始化整个应用
// Wire会分析依赖链并在wire_gen.go中生成按序调用所有构造函数的代码
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)

	// 占位返回值，实际代码由wire生成
	return nil, nil
}
