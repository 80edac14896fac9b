package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupInMemory(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	shutdown, err := InitWithExporter("library-test", exporter, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })
	return exporter
}

func TestStartSpan_ParentChild(t *testing.T) {
	exporter := setupInMemory(t)

	ctx, parent := StartSpan(context.Background(), "library", "lending.Borrow")
	parent.SetAttributes(attribute.Int("book.id", 7))
	_, child := StartSpan(ctx, "library", "rdb.LockBook")
	EndSpan(child, nil)
	EndSpan(parent, nil)

	require.NoError(t, flush(t))
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	byName := map[string]tracetest.SpanStub{}
	for _, s := range spans {
		byName[s.Name] = s
	}
	assert.Equal(t, byName["lending.Borrow"].SpanContext.TraceID(), byName["rdb.LockBook"].SpanContext.TraceID())
	assert.Equal(t, byName["lending.Borrow"].SpanContext.SpanID(), byName["rdb.LockBook"].Parent.SpanID())
	t.Logf("✓ 子Span挂在父Span下")
}

func TestEndSpan_RecordsError(t *testing.T) {
	exporter := setupInMemory(t)

	_, span := StartSpan(context.Background(), "library", "lending.Return")
	EndSpan(span, errors.New("not currently borrowed by this user"))

	require.NoError(t, flush(t))
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.NotEmpty(t, spans[0].Events, "错误应记录为Span事件")
}

func TestExtractTraceID(t *testing.T) {
	setupInMemory(t)

	t.Run("有效Context", func(t *testing.T) {
		ctx, span := StartSpan(context.Background(), "library", "op")
		defer span.End()
		assert.Len(t, ExtractTraceID(ctx), 32)
	})

	t.Run("无Span的Context", func(t *testing.T) {
		assert.Empty(t, ExtractTraceID(context.Background()))
	})
}

// flush 强制批处理器导出（InMemoryExporter在Shutdown时会清空，不能用shutdown代替）
func flush(t *testing.T) error {
	t.Helper()
	tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, ok)
	return tp.ForceFlush(context.Background())
}
