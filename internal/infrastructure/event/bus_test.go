package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", uuid.New())}
}

type recordingHandler struct {
	types []string
	err   error
	panic bool

	mu      sync.Mutex
	handled []string
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event.EventType())
	h.mu.Unlock()
	if h.panic {
		panic("boom")
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.handled...)
}

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	return bus
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := startedBus(t)
	orders := &recordingHandler{types: []string{"OrderCreated", "OrderDelivered"}}
	returns := &recordingHandler{types: []string{"ReturnRequested"}}
	bus.Subscribe(orders)
	bus.Subscribe(returns)

	err := bus.Publish(context.Background(),
		newTestEvent("OrderCreated"),
		newTestEvent("ReturnRequested"),
		newTestEvent("OrderDelivered"),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"OrderCreated", "OrderDelivered"}, orders.seen())
	assert.Equal(t, []string{"ReturnRequested"}, returns.seen())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := startedBus(t)
	h := &recordingHandler{types: []string{"OrderCreated"}}
	bus.Subscribe(h, "ProductStockLow")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderCreated"), newTestEvent("ProductStockLow")))
	assert.Equal(t, []string{"ProductStockLow"}, h.seen())
}

func TestInMemoryEventBus_Wildcard(t *testing.T) {
	bus := startedBus(t)
	all := &recordingHandler{}
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B")))
	assert.Equal(t, []string{"A", "B"}, all.seen())
}

func TestInMemoryEventBus_FailuresDoNotStopDelivery(t *testing.T) {
	bus := startedBus(t)
	boom := errors.New("db down")
	failing := &recordingHandler{types: []string{"OrderDelivered"}, err: boom}
	panicking := &recordingHandler{types: []string{"OrderDelivered"}, panic: true}
	healthy := &recordingHandler{types: []string{"OrderDelivered"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("OrderDelivered"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "panicked")
	assert.Len(t, healthy.seen(), 1)

	delivered, failed := bus.Stats()
	assert.Equal(t, int64(1), delivered)
	assert.Equal(t, int64(2), failed)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := startedBus(t)
	h := &recordingHandler{types: []string{"OrderCreated"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderCreated")))
	assert.Empty(t, h.seen())
}

func TestInMemoryEventBus_DropsAfterStop(t *testing.T) {
	bus := startedBus(t)
	h := &recordingHandler{types: []string{"OrderCreated"}}
	bus.Subscribe(h)

	require.NoError(t, bus.Stop(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderCreated")))
	assert.Empty(t, h.seen())
}

type ctxKey struct{}

type contextHandler struct {
	err   error
	value any
}

func (h *contextHandler) Handle(ctx context.Context, _ shared.DomainEvent) error {
	h.err = ctx.Err()
	h.value = ctx.Value(ctxKey{})
	return nil
}

func (h *contextHandler) EventTypes() []string { return []string{"OrderDelivered"} }

func TestInMemoryEventBus_OutlivesCallerCancellation(t *testing.T) {
	bus := startedBus(t)
	handler := &contextHandler{}
	bus.Subscribe(handler)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "req-42"))
	cancel()

	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderDelivered")))
	assert.NoError(t, handler.err, "handler saw the caller's cancellation")
	assert.Equal(t, "req-42", handler.value)
}
