// Package catalog 目录服务:组合仓储、引用解析、删除守卫和并发聚合,
// 实现作者、类别、图书、馆藏副本的 列表/详情/创建/更新表单/更新/删除确认/删除。
//
// 每个操作都经过同一个执行包装(见 run):
//   - 超时:配置的单次操作超时与调用方ctx的截止时间取较早者,超时返回 ErrTimeout
//   - 熔断:存储层连续故障后熔断器打开,直接返回 ErrStorageUnavailable
//   - 观测:每个操作一个tracing span,并按结果记录prometheus指标
//
// 业务错误(NotFound、校验失败、删除被阻止)不计入熔断器的失败次数。
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	"github.com/xiebiao/locallibrary/internal/infrastructure/config"
	"github.com/xiebiao/locallibrary/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
	"github.com/xiebiao/locallibrary/pkg/metrics"
	"github.com/xiebiao/locallibrary/pkg/tracing"
)

const tracerName = "catalog-service"

// SummaryCache 首页统计缓存
// Get同时返回当前版本,未命中时统计为nil;Set只写入该版本,
// Invalidate推进版本,之后旧版本的Set不会再被读到
type SummaryCache interface {
	Get(ctx context.Context) (*catalogdomain.Summary, int64, error)
	Set(ctx context.Context, version int64, s *catalogdomain.Summary) error
	Invalidate(ctx context.Context) error
}

// EventPublisher 变更事件发布
type EventPublisher interface {
	Publish(ctx context.Context, e catalogdomain.Event) error
}

// Transactor 事务边界,fn内的仓储调用共享同一事务
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories 四类实体的仓储
type Repositories struct {
	Authors   author.Repository
	Genres    genre.Repository
	Books     book.Repository
	Instances bookinstance.Repository
}

// Service 目录服务
type Service struct {
	authors   author.Repository
	genres    genre.Repository
	books     book.Repository
	instances bookinstance.Repository

	resolver *catalogdomain.Resolver
	guard    *catalogdomain.Guard

	tx        Transactor
	cache     SummaryCache
	events    EventPublisher
	breaker   *circuitbreaker.CircuitBreaker
	validate  *validator.Validate
	opTimeout time.Duration
	log       *zap.Logger
}

// NewService 创建目录服务
// tx为nil时更新操作不开启事务;cache、events可以为nil,表示不启用缓存/事件
func NewService(repos Repositories, tx Transactor, cfg config.CatalogConfig, cache SummaryCache, events EventPublisher, log *zap.Logger) *Service {
	metrics.InitMetrics()

	s := &Service{
		authors:   repos.Authors,
		genres:    repos.Genres,
		books:     repos.Books,
		instances: repos.Instances,
		resolver:  catalogdomain.NewResolver(repos.Authors, repos.Genres, repos.Books),
		guard:     catalogdomain.NewGuard(repos.Authors, repos.Genres, repos.Books, repos.Instances),
		tx:        tx,
		cache:     cache,
		events:    events,
		validate:  newValidator(),
		opTimeout: cfg.OpTimeout,
		log:       log,
	}

	s.breaker = circuitbreaker.NewCircuitBreaker("catalog-store", circuitbreaker.Config{
		MaxRequests:  cfg.Breaker.MaxRequests,
		Interval:     cfg.Breaker.Interval,
		Timeout:      cfg.Breaker.Timeout,
		ReadyToTrip:  circuitbreaker.ConsecutiveFailures(cfg.Breaker.ConsecutiveFailures),
		IsSuccessful: func(err error) bool { return !isStoreFailure(err) },
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
			log.Warn("熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return s
}

// run 在超时、熔断、tracing、指标的包装下执行一次操作
func (s *Service) run(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "catalog."+op)
	defer func() {
		tracing.EndSpan(span, err)
		metrics.ObserveOp(op, resultLabel(err), time.Since(start))
	}()

	if s.opTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opTimeout)
		defer cancel()
	}

	err = s.breaker.ExecuteContext(ctx, fn)
	if err == nil {
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": s.breaker.Name(), "result": "success"})
		return nil
	}

	err = classify(err)
	switch {
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": s.breaker.Name(), "result": "rejected"})
		s.log.Error("存储不可用", zap.String("op", op), zap.Error(err))
	case isStoreFailure(err):
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": s.breaker.Name(), "result": "failure"})
		s.log.Error("存储操作失败", zap.String("op", op), zap.Error(err))
	}
	return err
}

// call run的带返回值版本
func call[T any](ctx context.Context, s *Service, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := s.run(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// transaction 读-改-写放进同一事务
func (s *Service) transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.Transaction(ctx, fn)
}

// classify 统一错误类型
// 仓储已经翻译过的AppError原样返回
func classify(err error) error {
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		return apperrors.ErrStorageUnavailable.WithErr(err)
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrTimeout.WithErr(err)
	case errors.Is(err, context.Canceled):
		return apperrors.ErrCanceled.WithErr(err)
	}
	return apperrors.Wrap(err, "目录服务内部错误")
}

// isStoreFailure 是否为存储层故障(计入熔断器失败次数)
func isStoreFailure(err error) bool {
	if err == nil {
		return false
	}
	if !apperrors.IsAppError(err) {
		return !errors.Is(err, context.Canceled)
	}
	switch apperrors.GetAppError(err).Code {
	case apperrors.ErrCodeInternal, apperrors.ErrCodeDatabaseError,
		apperrors.ErrCodeStorageUnavailable, apperrors.ErrCodeTimeout:
		return true
	}
	return false
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperrors.IsNotFound(err):
		return "not_found"
	case apperrors.IsValidation(err):
		return "invalid"
	case apperrors.IsTimeout(err):
		return "timeout"
	case apperrors.IsCanceled(err):
		return "canceled"
	case apperrors.IsStorageUnavailable(err):
		return "unavailable"
	}
	return "error"
}

// afterWrite 写成功后的副作用:清除统计缓存、发布事件
// 失败只记日志,不影响本次写入的结果
func (s *Service) afterWrite(ctx context.Context, kind catalogdomain.Kind, action catalogdomain.Action, id string) {
	ctx = context.WithoutCancel(ctx)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("清除统计缓存失败", zap.Error(err))
		}
	}
	if s.events != nil {
		e := catalogdomain.NewEvent(kind, action, id)
		if err := s.events.Publish(ctx, e); err != nil {
			s.log.Warn("发布目录事件失败", zap.String("routing_key", e.RoutingKey()), zap.Error(err))
		}
	}
}

// blocked 记录一次被阻止的删除
func (s *Service) blocked(kind catalogdomain.Kind, id string, dependents int) {
	metrics.IncCounterVec(metrics.DeletesBlockedTotal, map[string]string{"kind": string(kind)})
	s.log.Info("删除被阻止:仍有记录引用",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Int("dependents", dependents),
	)
}
