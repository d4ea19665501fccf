package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/response"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入，组装顺序 Repository ← Service ← UseCase ← Handler
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 可观测性：指标与链路追踪
	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRate)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Printf("WARN: 关闭链路追踪失败: %v", err)
			}
		}()
	}

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化消息队列发布者（未启用时用空实现，业务路径不感知）
	var publisher order.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mqPublisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("初始化RabbitMQ失败: %v", err)
		}
		defer mqPublisher.Close()
		publisher = mqPublisher
	} else {
		publisher = rabbitmq.NopPublisher{}
	}

	// 6. 依赖注入（手动组装）

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	genreRepo := mysql.NewGenreRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	stockRepo := mysql.NewInventoryRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	cartCache := redis.NewCartCache(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)
	catalogService := catalog.NewService(bookRepo, genreRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	profileUseCase := appuser.NewProfileUseCase(userRepo)

	listBooksUseCase := appcatalog.NewListBooksUseCase(catalogService)
	getBookUseCase := appcatalog.NewGetBookUseCase(catalogService, stockRepo)
	publishBookUseCase := appcatalog.NewPublishBookUseCase(catalogService, stockRepo)
	updateBookUseCase := appcatalog.NewUpdateBookUseCase(catalogService)
	deleteBookUseCase := appcatalog.NewDeleteBookUseCase(catalogService)
	genreUseCase := appcatalog.NewGenreUseCase(catalogService)
	stockUseCase := appcatalog.NewStockUseCase(stockRepo, bookRepo)

	getCartUseCase := appcart.NewGetCartUseCase(cartRepo)
	badgeUseCase := appcart.NewBadgeUseCase(cartRepo, cartCache)
	addItemUseCase := appcart.NewAddItemUseCase(cartRepo, bookRepo, cartCache)
	removeItemUseCase := appcart.NewRemoveItemUseCase(cartRepo, cartCache)
	checkoutUseCase := appcheckout.NewUseCase(cartRepo, stockRepo, orderRepo, userRepo, txManager, cartCache, publisher)

	listOrdersUseCase := apporder.NewListOrdersUseCase(orderRepo)
	getOrderUseCase := apporder.NewGetOrderUseCase(orderRepo)
	updateStatusUseCase := apporder.NewUpdateStatusUseCase(orderRepo)
	togglePaymentUseCase := apporder.NewTogglePaymentUseCase(orderRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase, profileUseCase)
	bookHandler := handler.NewBookHandler(listBooksUseCase, getBookUseCase, publishBookUseCase, updateBookUseCase, deleteBookUseCase)
	genreHandler := handler.NewGenreHandler(genreUseCase)
	stockHandler := handler.NewStockHandler(stockUseCase)
	cartHandler := handler.NewCartHandler(getCartUseCase, badgeUseCase, addItemUseCase, removeItemUseCase, checkoutUseCase)
	orderHandler := handler.NewOrderHandler(listOrdersUseCase, getOrderUseCase, updateStatusUseCase, togglePaymentUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore, userService)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 8. 注册路由
	registerRoutes(r, userHandler, bookHandler, genreHandler, stockHandler, cartHandler, orderHandler, authMiddleware)

	// 9. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	genreHandler *handler.GenreHandler,
	stockHandler *handler.StockHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 用户模块（公开接口）
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
		}

		// 用户模块（需要登录）
		usersAuth := v1.Group("/users")
		usersAuth.Use(authMiddleware.RequireAuth())
		{
			usersAuth.POST("/logout", userHandler.Logout)
			usersAuth.GET("/profile", userHandler.GetProfile)
			usersAuth.PUT("/profile", userHandler.UpdateProfile)
		}

		// 图书与类别（公开接口）
		v1.GET("/books", bookHandler.List)
		v1.GET("/books/:id", bookHandler.Get)
		v1.GET("/genres", genreHandler.List)

		// 购物车（需要登录；结账也在这里）
		cart := v1.Group("/cart")
		cart.Use(authMiddleware.RequireAuth())
		{
			cart.GET("", cartHandler.Get)
			cart.GET("/badge", cartHandler.Badge)
			cart.POST("/items", cartHandler.AddItem)
			cart.DELETE("/items/:book_id", cartHandler.RemoveItem)
			cart.POST("/checkout", cartHandler.Checkout)
		}

		// 订单（需要登录）
		orders := v1.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
		}

		// 管理端（需要登录+管理员角色）
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			admin.POST("/books", bookHandler.Create)
			admin.PUT("/books/:id", bookHandler.Update)
			admin.DELETE("/books/:id", bookHandler.Delete)

			admin.POST("/genres", genreHandler.Create)
			admin.PUT("/genres/:id", genreHandler.Rename)
			admin.DELETE("/genres/:id", genreHandler.Delete)

			admin.GET("/stocks", stockHandler.List)
			admin.PUT("/stocks/:book_id", stockHandler.Set)

			admin.GET("/orders", orderHandler.AdminList)
			admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)
			admin.PUT("/orders/:id/payment", orderHandler.TogglePayment)
		}
	}
}
