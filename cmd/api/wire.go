//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go把buildApp替换为wire_gen.go中的InitializeApp()
//
// 可选组件(redis缓存、mq事件、限流)由Provider按配置返回nil或noop实现,
// 依赖图本身不随配置变化。

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/locallibrary/internal/infrastructure/config"
	"github.com/xiebiao/locallibrary/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/locallibrary/internal/interface/http/handler"
	"github.com/xiebiao/locallibrary/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖
// 包含：数据库连接、统计缓存、事件发布
var infrastructureSet = wire.NewSet(
	provideDB,
	provideSummaryCache,
	provideEventPublisher,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	provideRepositories,
	mysql.NewTxManager,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	provideCatalogService,
)

// interfaceSet 接口层依赖
// 包含：处理器、限流中间件、路由
var interfaceSet = wire.NewSet(
	handler.NewCatalogHandler,
	provideRateLimiter,
	router.New,
	provideApp,
)

// InitializeApp 初始化整个应用
// 返回的cleanup按创建的逆序关闭数据库、Redis、MQ连接
func InitializeApp(cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
