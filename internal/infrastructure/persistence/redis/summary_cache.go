package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/locallibrary/internal/domain/catalog"
	"github.com/xiebiao/locallibrary/pkg/metrics"
)

const (
	summaryKey        = "locallibrary:catalog:summary"
	summaryVersionKey = summaryKey + ":version"
)

// SummaryCache 首页统计缓存
//
// 教学要点：
// 1. Cache-Aside：先查缓存，未命中再查数据库并回填
// 2. 版本号：写操作只INCR版本，统计按版本存在不同的key下
// 3. 计数期间发生写入时，回填落在旧版本key上，不会被再次读到
// 4. TTL兜底：旧版本key过期后自然清理
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache 创建统计缓存
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	metrics.InitMetrics()
	return &SummaryCache{client: client, ttl: ttl}
}

func versionedKey(version int64) string {
	return fmt.Sprintf("%s:v%d", summaryKey, version)
}

// Version 当前版本,从未失效过时为0
func (c *SummaryCache) Version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, summaryVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("获取缓存版本失败: %w", err)
	}
	return v, nil
}

// Get 读取当前版本的统计,未命中返回 (nil, version, nil)
func (c *SummaryCache) Get(ctx context.Context) (*catalog.Summary, int64, error) {
	version, err := c.Version(ctx)
	if err != nil {
		metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"result": "error"})
		return nil, 0, err
	}

	val, err := c.client.Get(ctx, versionedKey(version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"result": "miss"})
			return nil, version, nil
		}
		metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"result": "error"})
		return nil, 0, fmt.Errorf("获取缓存失败: %w", err)
	}

	var s catalog.Summary
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, 0, fmt.Errorf("反序列化失败: %w", err)
	}
	metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"result": "hit"})
	return &s, version, nil
}

// Set 按读取时的版本写入
func (c *SummaryCache) Set(ctx context.Context, version int64, s *catalog.Summary) error {
	val, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	if err := c.client.Set(ctx, versionedKey(version), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}
	return nil
}

// Invalidate 推进版本,当前版本的统计随之失效
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, summaryVersionKey).Err(); err != nil {
		return fmt.Errorf("推进缓存版本失败: %w", err)
	}
	return nil
}
