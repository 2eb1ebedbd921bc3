// Package fanout 并发执行一组互不依赖的读取,全部完成后再继续
//
// 语义:
//   - 所有任务同时发起,互相之间没有顺序保证,任务不能依赖彼此的副作用
//   - 任一任务失败,派生的ctx被取消,RunAll返回该错误且不返回任何结果
//   - 错误原样返回,不做包装,调用方可以继续用errors.Is判断错误类型
//
// 示例:
//
//	res, err := fanout.RunAll(ctx, map[string]fanout.Task{
//	    "author": func(ctx context.Context) (any, error) { return authors.FindByID(ctx, id) },
//	    "books":  func(ctx context.Context) (any, error) { return books.List(ctx, params) },
//	})
//	if err != nil {
//	    return err
//	}
//	a := fanout.Get[*author.Author](res, "author")
package fanout

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xiebiao/locallibrary/pkg/metrics"
	"github.com/xiebiao/locallibrary/pkg/tracing"
)

// Task 一个读取任务
type Task func(ctx context.Context) (any, error)

// Results 任务名 → 结果
type Results map[string]any

// RunAll 并发执行所有任务
func RunAll(ctx context.Context, tasks map[string]Task) (Results, error) {
	metrics.InitMetrics()
	start := time.Now()
	defer func() {
		metrics.ObserveHistogram(metrics.FanoutDuration, time.Since(start).Seconds())
	}()

	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(Results, len(tasks))

	for name, task := range tasks {
		name, task := name, task
		g.Go(func() error {
			tctx, span := tracing.StartSpan(gctx, "fanout", "fanout."+name)
			v, err := task(tctx)
			tracing.EndSpan(span, err)

			if err != nil {
				metrics.FanoutTasksTotal.WithLabelValues("failure").Inc()
				return err
			}
			metrics.FanoutTasksTotal.WithLabelValues("success").Inc()

			mu.Lock()
			results[name] = v
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Get 按名称取出结果并断言类型
// 名称不存在或类型不符时返回零值
func Get[T any](r Results, name string) T {
	v, _ := r[name].(T)
	return v
}
