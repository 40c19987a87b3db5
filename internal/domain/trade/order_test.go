package trade

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder(uuid.New(), nil)
	require.NoError(t, err)
	return order
}

func addTestLine(t *testing.T, order *Order, quantity int, price string) *OrderLine {
	t.Helper()
	line, err := order.AddLine(uuid.New(), "Souris", "SKU-002", quantity, decimal.RequireFromString(price))
	require.NoError(t, err)
	return line
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		canTrans bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	number := GenerateOrderNumber(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^CMD-20260309-[0-9A-F]{6}$`), number)
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order", func(t *testing.T) {
		createdBy := uuid.New()
		order, err := NewOrder(uuid.New(), &createdBy)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.True(t, order.TotalAmount.IsZero())
		assert.Equal(t, &createdBy, order.CreatedBy)
		assert.NotEmpty(t, order.OrderNumber)
	})

	t.Run("rejects nil client", func(t *testing.T) {
		_, err := NewOrder(uuid.Nil, nil)
		requireCode(t, err, "INVALID_CLIENT")
	})
}

func TestOrder_AddLine(t *testing.T) {
	t.Run("computes subtotals and total", func(t *testing.T) {
		order := createTestOrder(t)
		line := addTestLine(t, order, 3, "10.50")
		addTestLine(t, order, 1, "4.99")

		assert.Equal(t, order.ID, line.OrderID)
		assert.True(t, line.Subtotal.Equal(decimal.RequireFromString("31.50")))
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("36.49")))
		assert.Equal(t, 4, order.TotalQuantity())
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		order := createTestOrder(t)
		productID := uuid.New()
		_, err := order.AddLine(productID, "A", "A", 1, decimal.NewFromInt(1))
		require.NoError(t, err)
		_, err = order.AddLine(productID, "A", "A", 2, decimal.NewFromInt(1))
		requireCode(t, err, "DUPLICATE_PRODUCT")
		assert.Len(t, order.Lines, 1)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddLine(uuid.New(), "A", "A", 0, decimal.NewFromInt(1))
		requireCode(t, err, "INVALID_QUANTITY")
	})

	t.Run("rejects negative price", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddLine(uuid.New(), "A", "A", 1, decimal.NewFromInt(-1))
		requireCode(t, err, "INVALID_PRICE")
	})
}

func TestOrder_Place(t *testing.T) {
	order := createTestOrder(t)
	requireCode(t, order.Place(), "NO_LINES")

	addTestLine(t, order, 1, "10")
	require.NoError(t, order.Place())
	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderCreated, events[0].EventType())
}

func TestOrder_Lifecycle(t *testing.T) {
	order := createTestOrder(t)
	addTestLine(t, order, 2, "15")

	require.NoError(t, order.ChangeStatus(OrderStatusConfirmed, ""))
	require.NotNil(t, order.ConfirmedAt)
	require.NoError(t, order.ChangeStatus(OrderStatusShipped, ""))
	require.NotNil(t, order.ShippedAt)
	require.NoError(t, order.ChangeStatus(OrderStatusDelivered, ""))
	require.NotNil(t, order.DeliveredAt)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	delivered := events[0].(*OrderDeliveredEvent)
	assert.True(t, delivered.TotalAmount.Equal(decimal.NewFromInt(30)))

	err := order.ChangeStatus(OrderStatusCancelled, "too late")
	requireCode(t, err, "INVALID_STATE")
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.KindBusinessRule, domainErr.Kind)
	assert.False(t, order.CanDelete())
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("requires reason", func(t *testing.T) {
		order := createTestOrder(t)
		requireCode(t, order.Cancel("  "), "INVALID_REASON")
		assert.Equal(t, OrderStatusPending, order.Status)
	})

	t.Run("cancels confirmed order", func(t *testing.T) {
		order := createTestOrder(t)
		assert.True(t, order.Status.HoldsStock())
		require.NoError(t, order.Confirm())
		require.NoError(t, order.Cancel("client changed mind"))
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.Equal(t, "client changed mind", order.CancelReason)
		assert.NotNil(t, order.CancelledAt)
		assert.False(t, order.Status.HoldsStock())
		assert.True(t, order.CanDelete())
	})

	t.Run("unknown status", func(t *testing.T) {
		order := createTestOrder(t)
		requireCode(t, order.ChangeStatus("lost", ""), "INVALID_STATUS")
	})
}
