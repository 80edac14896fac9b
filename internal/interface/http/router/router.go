// Package router 注册所有HTTP路由
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/response"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Book     *handler.BookHandler
	Lending  *handler.LendingHandler
}

// New 创建Gin引擎并注册路由
//
// 中间件顺序:Recovery → 请求日志 → Prometheus → (认证 → 角色)
//
//	/api/auth/*      注册、登录、登出
//	/api/public/*    公开查询
//	/api/admin/*     ROLE_ADMIN
//	/api/borrow|return  ROLE_USER
func New(cfg *config.Config, logger *slog.Logger, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	if cfg.Server.Mode == gin.ReleaseMode || cfg.Server.Mode == gin.TestMode {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})

	// Swagger文档(http://localhost:8080/swagger/index.html),生产环境不注册
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAdmin := middleware.RequireRole(string(user.RoleAdmin))
	requireUser := middleware.RequireRole(string(user.RoleUser))

	api := r.Group("/api")
	{
		// 认证
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", h.Auth.Signup)
			authGroup.POST("/signin", h.Auth.Signin)
			authGroup.POST("/signout", auth.RequireAuth(), h.Auth.Signout)
			authGroup.POST("/admin/signup", auth.RequireAuth(), requireAdmin, h.Auth.AdminSignup)
		}

		// 公开查询
		public := api.Group("/public")
		{
			public.GET("/categories", h.Category.List)
			public.GET("/categories/:categoryId/books", h.Book.ListByCategory)
			public.GET("/books", h.Book.ListBooks)
			public.GET("/books/author", h.Book.SearchByAuthor)
			public.GET("/books/title", h.Book.SearchByTitle)
			public.GET("/books/:bookId", h.Book.GetBook)
		}

		// 管理员
		admin := api.Group("/admin", auth.RequireAuth(), requireAdmin)
		{
			admin.POST("/categories", h.Category.Create)
			admin.PUT("/categories/:categoryId", h.Category.Update)
			admin.DELETE("/categories/:categoryId", h.Category.Delete)
			admin.POST("/categories/:categoryId/book", h.Book.AddBook)

			admin.PUT("/books/:bookId", h.Book.UpdateBook)
			admin.PATCH("/books/:bookId", h.Book.PatchBook)
			admin.DELETE("/books/:bookId", h.Book.DeleteBook)
		}

		// 借还(借阅人取自Token)
		lending := api.Group("", auth.RequireAuth(), requireUser)
		{
			lending.POST("/borrow/:bookId", h.Lending.Borrow)
			lending.POST("/return/:bookId", h.Lending.Return)
			lending.GET("/borrow/me", h.Lending.ListMine)
		}
	}

	return r
}
