package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHTTPMetrics(t *testing.T) {
	ctx := context.Background()
	reader, provider := testMeter()

	m, err := NewHTTPMetrics(provider.Meter("http"))
	require.NoError(t, err)

	m.Begin(ctx, "GET")
	m.End(ctx, "GET", "/api/v1/orders/:id", 200, 40*time.Millisecond)
	m.Begin(ctx, "POST")
	m.End(ctx, "POST", "/api/v1/orders", 422, 15*time.Millisecond)

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumInt(t, got["http.server.request.count"]))
	assert.Equal(t, int64(0), sumInt(t, got["http.server.active_requests"]))

	hist, ok := got["http.server.request.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2)

	routes := map[string]bool{}
	for _, dp := range hist.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("http.route"))
		routes[v.AsString()] = true
		assert.Equal(t, uint64(1), dp.Count)
	}
	assert.True(t, routes["/api/v1/orders/:id"])
	assert.True(t, routes["/api/v1/orders"])
}

func TestNewHTTPMetrics_NilMeter(t *testing.T) {
	_, err := NewHTTPMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}
