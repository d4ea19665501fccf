package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration未初始化")
	}
	if HTTPRequestsInProgress == nil {
		t.Error("HTTPRequestsInProgress未初始化")
	}
	if CheckoutTotal == nil {
		t.Error("CheckoutTotal未初始化")
	}
	if CheckoutDuration == nil {
		t.Error("CheckoutDuration未初始化")
	}
	if OrdersCreatedTotal == nil {
		t.Error("OrdersCreatedTotal未初始化")
	}
}

// TestInitMetrics_Idempotent 重复初始化不应panic(promauto重复注册会panic)
func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	InitMetrics()
}

// TestCounter 测试Counter指标
func TestCounter(t *testing.T) {
	InitMetrics()

	before := getCounterValue(t, OrdersCreatedTotal)

	IncCounter(OrdersCreatedTotal)
	IncCounter(OrdersCreatedTotal)
	IncCounter(OrdersCreatedTotal)

	value := getCounterValue(t, OrdersCreatedTotal)
	if value != before+3 {
		t.Errorf("Counter值错误: expected=%f, got=%f", before+3, value)
	}
}

// TestCounterVec 测试带标签的结账结果计数
func TestCounterVec(t *testing.T) {
	InitMetrics()

	IncCounterVec(CheckoutTotal, map[string]string{"result": "success"})
	IncCounterVec(CheckoutTotal, map[string]string{"result": "insufficient_stock"})
	IncCounterVec(CheckoutTotal, map[string]string{"result": "success"})

	value := getCounterVecValue(t, CheckoutTotal, map[string]string{"result": "success"})
	if value != 2 {
		t.Errorf("CounterVec值错误: expected=2, got=%f", value)
	}
}

// TestGauge 测试Gauge指标
func TestGauge(t *testing.T) {
	InitMetrics()
	SetGauge(HTTPRequestsInProgress, 0)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	if v := getGaugeValue(t, HTTPRequestsInProgress); v != 2 {
		t.Errorf("Gauge递增后值错误: expected=2, got=%f", v)
	}

	DecGauge(HTTPRequestsInProgress)
	if v := getGaugeValue(t, HTTPRequestsInProgress); v != 1 {
		t.Errorf("Gauge递减后值错误: expected=1, got=%f", v)
	}

	SetGauge(HTTPRequestsInProgress, 10)
	if v := getGaugeValue(t, HTTPRequestsInProgress); v != 10 {
		t.Errorf("Gauge设置后值错误: expected=10, got=%f", v)
	}
}

// TestGaugeVec 测试熔断器状态指标
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "rabbitmq-publisher"}, 0) // CLOSED
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "redis-cache"}, 1)        // OPEN

	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "rabbitmq-publisher"}); v != 0 {
		t.Errorf("GaugeVec值错误: expected=0, got=%f", v)
	}
	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "redis-cache"}); v != 1 {
		t.Errorf("GaugeVec值错误: expected=1, got=%f", v)
	}
}

// TestHistogram 测试结账耗时直方图
func TestHistogram(t *testing.T) {
	InitMetrics()

	beforeCount := getHistogramCount(t, CheckoutDuration)
	beforeSum := getHistogramSum(t, CheckoutDuration)

	ObserveHistogram(CheckoutDuration, 0.05)
	ObserveHistogram(CheckoutDuration, 0.1)
	ObserveHistogram(CheckoutDuration, 0.5)

	count := getHistogramCount(t, CheckoutDuration)
	if count != beforeCount+3 {
		t.Errorf("Histogram观测次数错误: expected=%d, got=%d", beforeCount+3, count)
	}

	sum := getHistogramSum(t, CheckoutDuration)
	expectedSum := beforeSum + 0.05 + 0.1 + 0.5
	if sum != expectedSum {
		t.Errorf("Histogram总和错误: expected=%f, got=%f", expectedSum, sum)
	}
}

// TestHistogramVec 测试HTTP耗时直方图
func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"method": "POST", "path": "/api/v1/cart/checkout"}
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.05)
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.1)

	count := getHistogramVecCount(t, HTTPRequestDuration, labels)
	if count != 2 {
		t.Errorf("HistogramVec观测次数错误: expected=2, got=%d", count)
	}
}

// 辅助函数：获取Counter值
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("读取Counter值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	counter := counterVec.With(labels)
	if err := counter.(prometheus.Counter).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取GaugeVec值
func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	var metric dto.Metric
	gauge := gaugeVec.With(labels)
	if err := gauge.(prometheus.Gauge).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取Histogram观测次数
func getHistogramCount(t *testing.T, histogram prometheus.Histogram) uint64 {
	var metric dto.Metric
	if err := histogram.Write(&metric); err != nil {
		t.Fatalf("读取Histogram值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}

// 辅助函数：获取Histogram总和
func getHistogramSum(t *testing.T, histogram prometheus.Histogram) float64 {
	var metric dto.Metric
	if err := histogram.Write(&metric); err != nil {
		t.Fatalf("读取Histogram值失败: %v", err)
	}
	return metric.Histogram.GetSampleSum()
}

// 辅助函数：获取HistogramVec观测次数
func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
