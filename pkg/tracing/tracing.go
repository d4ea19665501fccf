// Package tracing 提供基于OpenTelemetry的链路追踪
//
// Trace是一次完整请求链路,Span是其中一个操作单元,
// SpanContext(TraceID/SpanID)跨调用传播。结账管道的
// 事务、库存锁定、事件发布各自成Span,慢在哪一步一目了然。
//
// 使用OTLP gRPC导出,厂商中立(Jaeger/Tempo/Datadog均可接)。
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer 初始化全局Tracer Provider
//
// 参数：
//   - serviceName: 服务名称（在追踪后端UI中显示）
//   - endpoint: OTLP gRPC端点（如 localhost:4317）
//   - sampleRate: 采样率，(0,1)区间按比例采样,其余全采
//
// 返回关闭函数,程序退出前调用以刷新未发送的Span
func InitTracer(serviceName, endpoint string, sampleRate float64) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 生产环境应启用TLS
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// Resource描述产生遥测数据的实体,属性附加到所有Span上
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 采样策略:开发环境全采,生产环境按比例
	sampler := sdktrace.AlwaysSample()
	if sampleRate > 0 && sampleRate < 1 {
		sampler = sdktrace.TraceIDRatioBased(sampleRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler),
		// BatchSpanProcessor批量发送,性能优于SimpleSpanProcessor
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 全局Provider:业务代码直接用otel.Tracer()获取,
	// 第三方库(HTTP/gRPC)自动使用
	otel.SetTracerProvider(tp)

	// W3C Trace Context + Baggage,跨服务调用时传递TraceID/SpanID
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// StartSpan 创建一个新的Span（便捷函数）
// ctx包含父Span时新Span自动成为子Span,否则为根Span。
// 必须用返回的ctx调用下游函数,否则无法构建调用树。
//
// Span命名用操作名(Checkout、DecrementStock),
// 动态值放属性,不放名字。
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, spanName)
}

// ExtractTraceID 从Context提取TraceID（用于关联日志）
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
