package telemetry

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

func TestServiceSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	assert.Empty(t, TraceID(context.Background()))

	ctx, span := StartServiceSpan(context.Background(), "order", "create", attribute.Int("lines", 2))
	assert.Len(t, TraceID(ctx), 32)
	RecordError(span, nil)
	SetOK(span)
	span.End()

	_, failed := StartServiceSpan(context.Background(), "return", "approve")
	RecordError(failed, errors.New("insufficient stock"))
	failed.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "order.create", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("service.component", "order"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("lines", 2))

	assert.Equal(t, "return.approve", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "insufficient stock", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
}
