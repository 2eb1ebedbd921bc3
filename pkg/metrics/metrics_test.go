package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化(重复调用不panic)
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	if HTTPRequestsTotal == nil || CatalogOpsTotal == nil || FanoutDuration == nil {
		t.Fatal("指标未初始化")
	}
	t.Log("✅ 所有指标初始化成功")
}

// TestObserveOp 测试目录操作计数
func TestObserveOp(t *testing.T) {
	InitMetrics()

	before := getCounterVecValue(t, CatalogOpsTotal, map[string]string{"op": "author.delete", "result": "success"})
	ObserveOp("author.delete", "success", 3*time.Millisecond)
	ObserveOp("author.delete", "success", 5*time.Millisecond)
	ObserveOp("author.delete", "not_found", time.Millisecond)

	after := getCounterVecValue(t, CatalogOpsTotal, map[string]string{"op": "author.delete", "result": "success"})
	if after-before != 2 {
		t.Errorf("计数错误: expected=2, got=%f", after-before)
	}

	count := getHistogramVecCount(t, CatalogOpDuration, map[string]string{"op": "author.delete"})
	if count < 3 {
		t.Errorf("耗时样本数错误: expected>=3, got=%d", count)
	}
	t.Log("✅ 目录操作指标测试通过")
}

// TestGaugeVec 测试熔断器状态
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "catalog-store"}, 1)

	m := &dto.Metric{}
	g, err := CircuitBreakerState.GetMetricWith(prometheus.Labels{"name": "catalog-store"})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Write(m); err != nil {
		t.Fatal(err)
	}
	if m.GetGauge().GetValue() != 1 {
		t.Errorf("Gauge值错误: expected=1, got=%f", m.GetGauge().GetValue())
	}
}

func getCounterVecValue(t *testing.T, vec *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	c, err := vec.GetMetricWith(labels)
	if err != nil {
		t.Fatalf("获取Counter失败: %v", err)
	}
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("读取Counter失败: %v", err)
	}
	return m.GetCounter().GetValue()
}

func getHistogramVecCount(t *testing.T, vec *prometheus.HistogramVec, labels map[string]string) uint64 {
	t.Helper()
	o, err := vec.GetMetricWith(labels)
	if err != nil {
		t.Fatalf("获取Histogram失败: %v", err)
	}
	m := &dto.Metric{}
	if err := o.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("读取Histogram失败: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}
