// Package metrics 目录服务的Prometheus指标
//
// 指标分四组:
//   - HTTP: 请求数、耗时、处理中的请求数
//   - 目录操作: 每个服务操作的结果计数与耗时,被守卫拦下的删除次数
//   - 并发聚合: fanout批次耗时、子任务结果
//   - 基础设施: 熔断器状态、统计缓存命中、事件发布
//
// 命名规范:Counter以_total结尾,Histogram以单位结尾(_seconds)。
// 标签只使用有限取值(操作名、实体类型、结果),不要把记录ID放进标签。
//
// 使用示例:
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	err := doSomething()
//	metrics.ObserveOp("author.delete", err, time.Since(start))
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initOnce 防止重复注册到默认Registry
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path(路由模板,不是原始URL)、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 目录操作指标

	// CatalogOpsTotal 目录服务操作总数
	// 标签：op(如author.create)、result(success/not_found/invalid/timeout/unavailable/error)
	CatalogOpsTotal *prometheus.CounterVec

	// CatalogOpDuration 目录服务操作耗时
	CatalogOpDuration *prometheus.HistogramVec

	// DeletesBlockedTotal 因仍被引用而拒绝的删除次数
	// 标签：kind(author/genre/book)
	DeletesBlockedTotal *prometheus.CounterVec

	// 并发聚合指标

	// FanoutDuration 一批并发读取从开始到全部完成的耗时
	FanoutDuration prometheus.Histogram

	// FanoutTasksTotal 子任务结果
	// 标签：result(success/failure)
	FanoutTasksTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result(success/failure/rejected)
	CircuitBreakerRequests *prometheus.CounterVec

	// 缓存与消息

	// CacheRequestsTotal 首页统计缓存查询
	// 标签：result(hit/miss/error)
	CacheRequestsTotal *prometheus.CounterVec

	// MessagesPublishedTotal 事件发布总数
	// 标签：exchange、routing_key
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 可以多次调用,只有第一次生效
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	CatalogOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_operations_total",
			Help: "目录服务操作总数",
		},
		[]string{"op", "result"},
	)

	// 存储操作多为毫秒级,超时阈值默认5秒
	CatalogOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_operation_duration_seconds",
			Help:    "目录服务操作耗时（秒）",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"op"},
	)

	DeletesBlockedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_deletes_blocked_total",
			Help: "因仍被引用而拒绝的删除次数",
		},
		[]string{"kind"},
	)

	FanoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fanout_duration_seconds",
			Help:    "并发读取批次耗时（秒）",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	FanoutTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fanout_tasks_total",
			Help: "并发读取子任务总数",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_cache_requests_total",
			Help: "首页统计缓存查询次数",
		},
		[]string{"result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "事件发布总数",
		},
		[]string{"exchange", "routing_key"},
	)
}

// ObserveOp 记录一次目录服务操作
// result由调用方按错误类型归类后传入
func ObserveOp(op, result string, elapsed time.Duration) {
	InitMetrics()
	CatalogOpsTotal.WithLabelValues(op, result).Inc()
	CatalogOpDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
