package tracing

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TestInitTracer 测试Tracer初始化
func TestInitTracer(t *testing.T) {
	shutdown, err := InitTracer("bookshop-test", "localhost:4317", 1)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			t.Errorf("关闭Tracer失败: %v", err)
		}
	}()

	if otel.Tracer("test") == nil {
		t.Error("全局TracerProvider未设置")
	}
}

// TestStartSpan 测试Span创建
func TestStartSpan(t *testing.T) {
	shutdown, err := InitTracer("bookshop-test", "localhost:4317", 1)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("创建根Span", func(t *testing.T) {
		ctx := context.Background()

		_, span := StartSpan(ctx, "bookshop-test", "Checkout")
		defer span.End()

		if !span.SpanContext().IsValid() {
			t.Error("Span无效")
		}

		traceID := span.SpanContext().TraceID().String()
		if traceID == "" || traceID == "00000000000000000000000000000000" {
			t.Errorf("TraceID无效: %s", traceID)
		}
	})

	t.Run("创建子Span", func(t *testing.T) {
		ctx := context.Background()

		ctx, rootSpan := StartSpan(ctx, "bookshop-test", "Checkout")
		defer rootSpan.End()

		rootTraceID := rootSpan.SpanContext().TraceID().String()
		rootSpanID := rootSpan.SpanContext().SpanID().String()

		_, childSpan := StartSpan(ctx, "bookshop-test", "DecrementStock")
		defer childSpan.End()

		// 子Span继承根Span的TraceID,但有独立的SpanID
		if childSpan.SpanContext().TraceID().String() != rootTraceID {
			t.Errorf("子Span的TraceID不匹配: root=%s, child=%s",
				rootTraceID, childSpan.SpanContext().TraceID().String())
		}
		if childSpan.SpanContext().SpanID().String() == rootSpanID {
			t.Error("子Span的SpanID不应与根Span相同")
		}
	})
}

// TestExtractTraceID 测试TraceID提取
func TestExtractTraceID(t *testing.T) {
	shutdown, err := InitTracer("bookshop-test", "localhost:4317", 1)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("从有效Context提取TraceID", func(t *testing.T) {
		ctx, span := StartSpan(context.Background(), "bookshop-test", "Checkout")
		defer span.End()

		traceID := ExtractTraceID(ctx)
		if traceID == "" {
			t.Error("TraceID为空")
		}
		if len(traceID) != 32 {
			t.Errorf("TraceID长度错误: expected=32, got=%d", len(traceID))
		}
	})

	t.Run("从无Span的Context提取TraceID", func(t *testing.T) {
		if traceID := ExtractTraceID(context.Background()); traceID != "" {
			t.Errorf("期望空字符串，实际: %s", traceID)
		}
	})
}

// TestExtractSpanID 测试SpanID提取
func TestExtractSpanID(t *testing.T) {
	shutdown, err := InitTracer("bookshop-test", "localhost:4317", 1)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	ctx, span := StartSpan(context.Background(), "bookshop-test", "Checkout")
	defer span.End()

	spanID := ExtractSpanID(ctx)
	if len(spanID) != 16 {
		t.Errorf("SpanID长度错误: expected=16, got=%d", len(spanID))
	}

	if spanID := ExtractSpanID(context.Background()); spanID != "" {
		t.Errorf("期望空字符串，实际: %s", spanID)
	}
}

// TestCheckoutPipelineSpans 模拟结账管道的Span层级
func TestCheckoutPipelineSpans(t *testing.T) {
	shutdown, err := InitTracer("bookshop-test", "localhost:4317", 1)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	ctx := context.Background()
	if err := simulateCheckout(ctx, 42, 3); err != nil {
		t.Errorf("结账模拟失败: %v", err)
	}
}

// simulateCheckout 模拟结账流程的追踪埋点
func simulateCheckout(ctx context.Context, buyerID uint, itemCount int) error {
	ctx, span := StartSpan(ctx, "bookshop-test", "Checkout")
	defer span.End()

	span.SetAttributes(
		attribute.Int("buyer_id", int(buyerID)),
		attribute.Int("item_count", itemCount),
	)

	if err := simulateStep(ctx, "LockStock", 10*time.Millisecond); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := simulateStep(ctx, "CreateOrder", 20*time.Millisecond); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := simulateStep(ctx, "ClearCart", 5*time.Millisecond); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "结账完成")
	return nil
}

func simulateStep(ctx context.Context, name string, d time.Duration) error {
	_, span := StartSpan(ctx, "bookshop-test", name)
	defer span.End()

	time.Sleep(d)
	span.SetStatus(codes.Ok, "")
	return nil
}
