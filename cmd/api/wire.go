//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 与bootstrap.Build组装出相同的依赖图,生成代码:
//
//	wire gen ./cmd/api
package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/library/internal/application/book"
	appcategory "github.com/xiebiao/library/internal/application/category"
	applending "github.com/xiebiao/library/internal/application/lending"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/bootstrap"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/shared"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/jwt"
)

// ========================================
// Provider Sets
// ========================================

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	rdb.NewUserRepository,
	rdb.NewCategoryRepository,
	rdb.NewBookRepository,
	rdb.NewTransactionRepository,
	rdb.NewTxManager,
	wire.Bind(new(shared.TxManager), new(*rdb.TxManager)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	category.NewService,
	book.NewService,
	lending.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appcategory.NewListCategoriesUseCase,
	appcategory.NewCreateCategoryUseCase,
	appcategory.NewUpdateCategoryUseCase,
	appcategory.NewDeleteCategoryUseCase,
	appbook.NewAddBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewUpdateBookUseCase,
	applending.NewBorrowBookUseCase,
	applending.NewReturnBookUseCase,
	applending.NewListMyTransactionsUseCase,
)

// interfaceSet 处理器、中间件、路由
var interfaceSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewCategoryHandler,
	handler.NewBookHandler,
	handler.NewLendingHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideJWTManager,
	middleware.NewAuthMiddleware,
	router.New,
)

// InitializeEngine 组装HTTP引擎,外部组件由infra提供
func InitializeEngine(cfg *config.Config, logger *slog.Logger, db *gorm.DB, infra bootstrap.Infra) *gin.Engine {
	wire.Build(
		wire.FieldsOf(new(*config.Config), "Pagination"),
		provideSessionStore,
		provideTokenBlacklist,
		provideBookCache,
		provideEventPublisher,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil
}

// ========================================
// 自定义Provider
// ========================================

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

// provideSessionStore 未启用Redis时返回nil接口
func provideSessionStore(infra bootstrap.Infra) appuser.SessionStore {
	if infra.Sessions == nil {
		return nil
	}
	return infra.Sessions
}

func provideTokenBlacklist(infra bootstrap.Infra) middleware.TokenBlacklist {
	if infra.Sessions == nil {
		return nil
	}
	return infra.Sessions
}

func provideBookCache(infra bootstrap.Infra) book.Cache {
	if infra.Cache == nil {
		return book.NopCache{}
	}
	return infra.Cache
}

func provideEventPublisher(infra bootstrap.Infra) lending.EventPublisher {
	if infra.Publisher == nil {
		return lending.NopPublisher{}
	}
	return infra.Publisher
}
