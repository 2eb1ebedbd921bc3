package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errStorage = errors.New("connection refused")

func failN(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(func() error { return errStorage })
	}
}

// TestCircuitBreaker_ClosedState 测试关闭状态（正常）
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{Interval: 10 * time.Second, Timeout: 30 * time.Second})

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

// TestCircuitBreaker_OpenState 测试打开状态（熔断）
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		Timeout:     30 * time.Second,
		ReadyToTrip: ConsecutiveFailures(3),
	})

	failN(cb, 3)
	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpenState) {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}
}

// TestCircuitBreaker_HalfOpen 测试超时后进入半开，探测成功恢复
func TestCircuitBreaker_HalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		MaxRequests: 1,
		Timeout:     50 * time.Millisecond,
		ReadyToTrip: ConsecutiveFailures(2),
	})

	failN(cb, 2)
	time.Sleep(80 * time.Millisecond)

	if cb.State() != StateHalfOpen {
		t.Fatalf("期望状态为HALF_OPEN，实际%s", cb.State())
	}

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("探测请求失败: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("探测成功后期望CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenFailure 探测失败回到打开状态
func TestCircuitBreaker_HalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		Timeout:     50 * time.Millisecond,
		ReadyToTrip: ConsecutiveFailures(1),
	})

	failN(cb, 1)
	time.Sleep(80 * time.Millisecond)
	failN(cb, 1)

	if cb.State() != StateOpen {
		t.Errorf("探测失败后期望OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_IsSuccessful 业务错误不计入失败
func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errNotFound := errors.New("not found")
	cb := NewCircuitBreaker("test", Config{
		Timeout:     time.Minute,
		ReadyToTrip: ConsecutiveFailures(2),
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
	})

	for i := 0; i < 10; i++ {
		err := cb.Execute(func() error { return errNotFound })
		if !errors.Is(err, errNotFound) {
			t.Fatalf("业务错误应原样返回，实际%v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("业务错误不应触发熔断，实际%s", cb.State())
	}
	if c := cb.Counts(); c.TotalFailures != 0 {
		t.Errorf("期望失败0次，实际%d次", c.TotalFailures)
	}
}

// TestCircuitBreaker_StateChangeCallback 状态变化回调
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	cb := NewCircuitBreaker("store", Config{
		Timeout:     time.Minute,
		ReadyToTrip: ConsecutiveFailures(1),
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	failN(cb, 1)

	if len(transitions) != 1 || transitions[0] != "store:CLOSED->OPEN" {
		t.Errorf("回调记录错误: %v", transitions)
	}
}

// TestCircuitBreaker_ExecuteContext ctx已取消时不执行
func TestCircuitBreaker_ExecuteContext(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.ExecuteContext(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Errorf("期望直接返回context.Canceled，实际err=%v called=%v", err, called)
	}
}

// TestCircuitBreaker_Concurrent 并发调用计数一致
func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{Interval: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(func() error { return nil })
		}()
	}
	wg.Wait()

	if c := cb.Counts(); c.Requests != 50 || c.TotalSuccesses != 50 {
		t.Errorf("期望50次请求全部成功，实际%+v", c)
	}
}
