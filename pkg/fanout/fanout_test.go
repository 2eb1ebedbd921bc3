package fanout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(v any) Task {
	return func(ctx context.Context) (any, error) { return v, nil }
}

func TestRunAll_Success(t *testing.T) {
	res, err := RunAll(context.Background(), map[string]Task{
		"books":   value(int64(3)),
		"authors": value(int64(2)),
		"name":    value("Fantasy"),
	})

	require.NoError(t, err)
	assert.Len(t, res, 3)
	assert.Equal(t, int64(3), Get[int64](res, "books"))
	assert.Equal(t, "Fantasy", Get[string](res, "name"))
	assert.Zero(t, Get[int64](res, "missing"), "不存在的名称返回零值")
	assert.Zero(t, Get[int64](res, "name"), "类型不符返回零值")
}

func TestRunAll_Empty(t *testing.T) {
	res, err := RunAll(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, res)
}

// 所有任务都已开始后才有任务能结束,证明任务是并发发起的
func TestRunAll_Concurrent(t *testing.T) {
	const n = 5
	var started sync.WaitGroup
	started.Add(n)

	tasks := make(map[string]Task, n)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		tasks[name] = func(ctx context.Context) (any, error) {
			started.Done()
			started.Wait()
			return true, nil
		}
	}

	done := make(chan struct{})
	go func() {
		_, err := RunAll(context.Background(), tasks)
		assert.NoError(t, err)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("任务没有并发执行")
	}
}

func TestRunAll_FailFast(t *testing.T) {
	boom := errors.New("count failed")
	var cancelled atomic.Bool

	res, err := RunAll(context.Background(), map[string]Task{
		"ok": value(1),
		"bad": func(ctx context.Context) (any, error) {
			return nil, boom
		},
		"slow": func(ctx context.Context) (any, error) {
			select {
			case <-ctx.Done():
				cancelled.Store(true)
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
				return 1, nil
			}
		},
	})

	assert.ErrorIs(t, err, boom, "返回失败任务的原始错误")
	assert.Nil(t, res, "失败时不返回部分结果")
	assert.True(t, cancelled.Load(), "其他任务收到取消信号")
}

func TestRunAll_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := RunAll(ctx, map[string]Task{
		"wait": func(ctx context.Context) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}
