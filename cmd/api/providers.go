package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appcatalog "github.com/xiebiao/locallibrary/internal/application/catalog"
	"github.com/xiebiao/locallibrary/internal/infrastructure/config"
	"github.com/xiebiao/locallibrary/internal/infrastructure/events"
	"github.com/xiebiao/locallibrary/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/locallibrary/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/locallibrary/internal/interface/http/middleware"
	"github.com/xiebiao/locallibrary/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Engine  *gin.Engine
	Limiter *middleware.RateLimiter // 未启用限流时为nil
}

// provideDB 打开数据库,cleanup关闭连接池
func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRepositories 目录服务需要的四个仓储
func provideRepositories(db *gorm.DB) appcatalog.Repositories {
	return appcatalog.Repositories{
		Authors:   mysql.NewAuthorRepository(db),
		Genres:    mysql.NewGenreRepository(db),
		Books:     mysql.NewBookRepository(db),
		Instances: mysql.NewBookInstanceRepository(db),
	}
}

// provideSummaryCache redis.enabled=false时返回nil,目录服务直接查库
func provideSummaryCache(cfg *config.Config, log *zap.Logger) (appcatalog.SummaryCache, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := redis.NewClient(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewSummaryCache(client, cfg.Redis.SummaryTTL), func() { client.Close() }, nil
}

// provideEventPublisher mq.enabled=false时不发布事件
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (appcatalog.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return events.Noop{}, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}
	return events.NewMQPublisher(pub, log), func() { pub.Close() }, nil
}

// provideCatalogService 组装目录服务
func provideCatalogService(
	cfg *config.Config,
	repos appcatalog.Repositories,
	tx *mysql.TxManager,
	cache appcatalog.SummaryCache,
	publisher appcatalog.EventPublisher,
	log *zap.Logger,
) *appcatalog.Service {
	return appcatalog.NewService(repos, tx, cfg.Catalog, cache, publisher, log)
}

// provideRateLimiter ratelimit.enabled=false时返回nil
func provideRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

func provideApp(engine *gin.Engine, limiter *middleware.RateLimiter) *App {
	return &App{Engine: engine, Limiter: limiter}
}
