package router

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
	"github.com/xiebiao/locallibrary/internal/infrastructure/config"
	"github.com/xiebiao/locallibrary/internal/interface/http/handler"
	"github.com/xiebiao/locallibrary/internal/interface/http/middleware"
	"github.com/xiebiao/locallibrary/pkg/metrics"
	"github.com/xiebiao/locallibrary/pkg/response"
)

// New 创建Gin引擎并注册全部路由
// limiter为nil时不限流
func New(cfg *config.Config, h *handler.CatalogHandler, limiter *middleware.RateLimiter, log *zap.Logger) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}
	metrics.InitMetrics()
	useJSONFieldNames()

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Tracing(), middleware.RequestLogger(log), middleware.Metrics())
	if limiter != nil {
		r.Use(limiter.Middleware())
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerCatalog(r.Group(catalogdomain.PathPrefix), h)
	return r
}

// registerCatalog 目录路由
// 每种实体: 列表、详情、创建、更新表单/更新、删除确认/删除、删除检查
func registerCatalog(g *gin.RouterGroup, h *handler.CatalogHandler) {
	g.GET("", h.Summary)

	g.GET("/authors", h.ListAuthors)
	author := g.Group("/author")
	{
		author.POST("/create", h.CreateAuthor)
		author.GET("/:id", h.AuthorDetail)
		author.GET("/:id/update", h.AuthorUpdateForm)
		author.POST("/:id/update", h.UpdateAuthor)
		author.GET("/:id/delete", h.AuthorDeleteForm)
		author.POST("/:id/delete", h.DeleteAuthor)
		author.GET("/:id/deletable", h.Deletable(catalogdomain.KindAuthor))
	}

	g.GET("/genres", h.ListGenres)
	genre := g.Group("/genre")
	{
		genre.POST("/create", h.CreateGenre)
		genre.GET("/:id", h.GenreDetail)
		genre.GET("/:id/update", h.GenreUpdateForm)
		genre.POST("/:id/update", h.UpdateGenre)
		genre.GET("/:id/delete", h.GenreDeleteForm)
		genre.POST("/:id/delete", h.DeleteGenre)
		genre.GET("/:id/deletable", h.Deletable(catalogdomain.KindGenre))
	}

	g.GET("/books", h.ListBooks)
	book := g.Group("/book")
	{
		book.GET("/create", h.BookCreateForm)
		book.POST("/create", h.CreateBook)
		book.GET("/:id", h.BookDetail)
		book.GET("/:id/update", h.BookUpdateForm)
		book.POST("/:id/update", h.UpdateBook)
		book.GET("/:id/delete", h.BookDeleteForm)
		book.POST("/:id/delete", h.DeleteBook)
		book.GET("/:id/deletable", h.Deletable(catalogdomain.KindBook))
	}

	g.GET("/bookinstances", h.ListInstances)
	inst := g.Group("/bookinstance")
	{
		inst.GET("/create", h.InstanceCreateForm)
		inst.POST("/create", h.CreateInstance)
		inst.GET("/:id", h.InstanceDetail)
		inst.GET("/:id/update", h.InstanceUpdateForm)
		inst.POST("/:id/update", h.UpdateInstance)
		inst.GET("/:id/delete", h.InstanceDeleteForm)
		inst.POST("/:id/delete", h.DeleteInstance)
		inst.GET("/:id/deletable", h.Deletable(catalogdomain.KindBookInstance))
	}
}

// useJSONFieldNames 绑定错误里使用json字段名
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}
