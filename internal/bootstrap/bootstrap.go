// Package bootstrap 手动依赖注入
//
// 依赖链:Repository ← 领域Service ← 用例 ← Handler ← 路由
// Open负责连接外部资源(数据库、Redis、RabbitMQ、OTLP),Build只做组装,
// 集成测试直接用SQLite调用Build。
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/library/internal/application/book"
	appcategory "github.com/xiebiao/library/internal/application/category"
	applending "github.com/xiebiao/library/internal/application/lending"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/messaging/rabbitmq"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/tracing"
)

// Sessions 会话存储 + Token黑名单(Redis实现)
type Sessions interface {
	appuser.SessionStore
	middleware.TokenBlacklist
}

// Infra 可选的外部组件,为nil时使用空实现
type Infra struct {
	Sessions  Sessions
	Cache     book.Cache
	Publisher lending.EventPublisher
}

// App 组装完成的应用
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	DB          *gorm.DB
	Engine      *gin.Engine
	UserService user.Service

	closers []func(context.Context) error
}

// Close 按创建的逆序释放资源
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	return errors.Join(errs...)
}

// Open 连接外部资源并组装应用
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (app *App, err error) {
	var closers []func(context.Context) error
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				_ = closers[i](ctx)
			}
		}
	}()

	// 1. 链路追踪
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			return nil, err
		}
		closers = append(closers, shutdown)
	}

	// 2. 数据库
	db, err := rdb.NewDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	closers = append(closers, func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	// 3. Redis(会话、黑名单、图书缓存)
	var infra Infra
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		closers = append(closers, func(context.Context) error { return client.Close() })
		infra.Sessions = redis.NewSessionStore(client)
		infra.Cache = redis.NewBookCache(client, cfg.Cache.BookDetailTTL)
	}

	// 4. RabbitMQ(借阅事件)
	if cfg.MQ.Enabled {
		publisher, err := rabbitmq.NewEventPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			return nil, fmt.Errorf("初始化事件发布失败: %w", err)
		}
		closers = append(closers, func(context.Context) error { return publisher.Close() })
		infra.Publisher = rabbitmq.NewGuardedPublisher(publisher, logger)
	}

	app = Build(cfg, logger, db, infra)
	app.closers = closers
	return app, nil
}

// Build 组装仓储、领域服务、用例、处理器和路由
func Build(cfg *config.Config, logger *slog.Logger, db *gorm.DB, infra Infra) *App {
	if infra.Cache == nil {
		infra.Cache = book.NopCache{}
	}
	if infra.Publisher == nil {
		infra.Publisher = lending.NopPublisher{}
	}

	// 接口值不能直接持有nil指针,未启用时显式传nil
	var sessions appuser.SessionStore
	var blacklist middleware.TokenBlacklist
	if infra.Sessions != nil {
		sessions = infra.Sessions
		blacklist = infra.Sessions
	}

	// 基础设施层
	txManager := rdb.NewTxManager(db)
	userRepo := rdb.NewUserRepository(db)
	categoryRepo := rdb.NewCategoryRepository(db)
	bookRepo := rdb.NewBookRepository(db)
	transactionRepo := rdb.NewTransactionRepository(db)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)

	// 领域层
	userService := user.NewService(userRepo)
	categoryService := category.NewService(categoryRepo, txManager)
	bookService := book.NewService(bookRepo, categoryRepo, txManager)
	lendingService := lending.NewService(transactionRepo, bookRepo, userRepo, txManager)

	// 应用层 + 接口层
	handlers := router.Handlers{
		Auth: handler.NewAuthHandler(
			appuser.NewRegisterUseCase(userService),
			appuser.NewLoginUseCase(userService, jwtManager, sessions, logger),
			appuser.NewLogoutUseCase(sessions),
		),
		Category: handler.NewCategoryHandler(
			appcategory.NewListCategoriesUseCase(categoryService, cfg.Pagination),
			appcategory.NewCreateCategoryUseCase(categoryService),
			appcategory.NewUpdateCategoryUseCase(categoryService),
			appcategory.NewDeleteCategoryUseCase(categoryService),
		),
		Book: handler.NewBookHandler(
			appbook.NewAddBookUseCase(bookService),
			appbook.NewGetBookUseCase(bookService, infra.Cache, logger),
			appbook.NewListBooksUseCase(bookService, cfg.Pagination),
			appbook.NewUpdateBookUseCase(bookService, infra.Cache, logger),
		),
		Lending: handler.NewLendingHandler(
			applending.NewBorrowBookUseCase(lendingService, infra.Cache, infra.Publisher, logger),
			applending.NewReturnBookUseCase(lendingService, infra.Cache, infra.Publisher, logger),
			applending.NewListMyTransactionsUseCase(lendingService, cfg.Pagination),
		),
	}
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, blacklist)

	return &App{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Engine:      router.New(cfg, logger, handlers, authMiddleware),
		UserService: userService,
	}
}
