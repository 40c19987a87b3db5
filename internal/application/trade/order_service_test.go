package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/partner"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc      *OrderService
	orders   *MockOrderRepository
	returns  *MockReturnRepository
	products *MockProductRepository
	clients  *MockClientRepository
	audit    *auditSpy
	events   *publisherSpy
}

func newOrderFixture() orderFixture {
	f := orderFixture{
		orders:   new(MockOrderRepository),
		returns:  new(MockReturnRepository),
		products: new(MockProductRepository),
		clients:  new(MockClientRepository),
		audit:    &auditSpy{},
		events:   &publisherSpy{},
	}
	scope := NewNoOpTransactionScope(f.products, f.orders, f.returns, f.audit)
	f.svc = NewOrderService(f.orders, f.clients, scope)
	f.svc.SetEventPublisher(f.events)
	return f
}

func activeClient(t *testing.T) *partner.Client {
	t.Helper()
	c, err := partner.NewClient("Amina", "Benali", "amina@example.com")
	require.NoError(t, err)
	require.NoError(t, c.SetContact("", "12 rue Didouche Mourad"))
	return c
}

func product(t *testing.T, ref string, price float64, stock, minStock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(ref, "Produit "+ref, decimal.NewFromFloat(price))
	require.NoError(t, err)
	require.NoError(t, p.SetInitialStock(stock))
	require.NoError(t, p.SetMinStock(minStock))
	return p
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements stock, saves order and writes audit row", func(t *testing.T) {
		f := newOrderFixture()
		client := activeClient(t)
		p1 := product(t, "A-1", 10, 20, 2)
		p2 := product(t, "B-2", 2.5, 5, 3)

		f.clients.On("FindByID", ctx, client.ID).Return(client, nil)
		f.products.On("FindByID", ctx, p1.ID).Return(p1, nil)
		f.products.On("FindByID", ctx, p2.ID).Return(p2, nil)
		f.products.On("DecrementStock", ctx, p1.ID, 3).Return(nil)
		f.products.On("DecrementStock", ctx, p2.ID, 2).Return(nil)
		f.orders.On("Save", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)

		resp, err := f.svc.Create(ctx, CreateOrderRequest{
			ClientID: client.ID,
			Lines: []CreateOrderLineRequest{
				{ProductID: p1.ID, Quantity: 3},
				{ProductID: p2.ID, Quantity: 2},
			},
		})

		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(35)))
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "12 rue Didouche Mourad", resp.ShippingAddress)
		require.Len(t, resp.Lines, 2)
		require.Len(t, f.audit.logs, 1)
		assert.Equal(t, audit.ActionCreate, f.audit.logs[0].Action)
		assert.Equal(t, audit.EntityOrder, f.audit.logs[0].EntityType)
		// p2 goes from 5 to 3 with threshold 3
		assert.ElementsMatch(t, []string{trade.EventTypeOrderCreated, catalog.EventTypeProductStockLow}, f.events.types())
		f.products.AssertExpectations(t)
	})

	t.Run("explicit unit price overrides sale price", func(t *testing.T) {
		f := newOrderFixture()
		client := activeClient(t)
		p := product(t, "A-1", 10, 20, 0)
		price := decimal.NewFromFloat(7.5)

		f.clients.On("FindByID", ctx, client.ID).Return(client, nil)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("DecrementStock", ctx, p.ID, 2).Return(nil)
		f.orders.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.svc.Create(ctx, CreateOrderRequest{
			ClientID: client.ID,
			Lines:    []CreateOrderLineRequest{{ProductID: p.ID, Quantity: 2, UnitPrice: &price}},
		})

		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(15)))
	})

	t.Run("insufficient stock aborts before saving", func(t *testing.T) {
		f := newOrderFixture()
		client := activeClient(t)
		p := product(t, "A-1", 10, 1, 0)

		f.clients.On("FindByID", ctx, client.ID).Return(client, nil)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("DecrementStock", ctx, p.ID, 5).Return(shared.ErrInsufficientStock)

		_, err := f.svc.Create(ctx, CreateOrderRequest{
			ClientID: client.ID,
			Lines:    []CreateOrderLineRequest{{ProductID: p.ID, Quantity: 5}},
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, f.audit.logs)
		assert.Empty(t, f.events.events)
	})

	t.Run("duplicate product is rejected up front", func(t *testing.T) {
		f := newOrderFixture()
		id := uuid.New()

		_, err := f.svc.Create(ctx, CreateOrderRequest{
			ClientID: uuid.New(),
			Lines:    []CreateOrderLineRequest{{ProductID: id, Quantity: 1}, {ProductID: id, Quantity: 2}},
		})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "DUPLICATE_PRODUCT", domainErr.Code)
		f.clients.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("inactive client", func(t *testing.T) {
		f := newOrderFixture()
		client := activeClient(t)
		require.NoError(t, client.SetStatus(partner.ClientStatusInactive))
		f.clients.On("FindByID", ctx, client.ID).Return(client, nil)

		_, err := f.svc.Create(ctx, CreateOrderRequest{
			ClientID: client.ID,
			Lines:    []CreateOrderLineRequest{{ProductID: uuid.New(), Quantity: 1}},
		})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "CLIENT_INACTIVE", domainErr.Code)
	})

	t.Run("inactive product", func(t *testing.T) {
		f := newOrderFixture()
		client := activeClient(t)
		p := product(t, "A-1", 10, 10, 0)
		require.NoError(t, p.SetStatus(catalog.ProductStatusInactive))
		f.clients.On("FindByID", ctx, client.ID).Return(client, nil)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := f.svc.Create(ctx, CreateOrderRequest{
			ClientID: client.ID,
			Lines:    []CreateOrderLineRequest{{ProductID: p.ID, Quantity: 1}},
		})

		assert.Equal(t, shared.KindBusinessRule, shared.KindOf(err))
		f.products.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func placedOrder(t *testing.T, p *catalog.Product, qty int) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(uuid.New(), nil)
	require.NoError(t, err)
	_, err = o.AddLine(p.ID, p.Name, p.Reference, qty, p.SalePrice)
	require.NoError(t, err)
	require.NoError(t, o.Place())
	o.ClearDomainEvents()
	return o
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling a pending order restores stock", func(t *testing.T) {
		f := newOrderFixture()
		p := product(t, "A-1", 10, 10, 0)
		o := placedOrder(t, p, 4)

		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
		f.orders.On("Save", ctx, o).Return(nil)
		f.products.On("IncrementStock", ctx, p.ID, 4).Return(nil)

		resp, err := f.svc.UpdateStatus(ctx, o.ID, UpdateOrderStatusRequest{Status: "cancelled", Reason: "client request"})

		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.Equal(t, "client request", resp.CancelReason)
		f.products.AssertExpectations(t)
		require.Len(t, f.audit.logs, 1)
		assert.Equal(t, audit.ActionStatusChange, f.audit.logs[0].Action)
		assert.Equal(t, []string{trade.EventTypeOrderCancelled}, f.events.types())
	})

	t.Run("delivering publishes OrderDelivered", func(t *testing.T) {
		f := newOrderFixture()
		p := product(t, "A-1", 10, 10, 0)
		o := placedOrder(t, p, 1)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Ship())

		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
		f.orders.On("Save", ctx, o).Return(nil)

		_, err := f.svc.UpdateStatus(ctx, o.ID, UpdateOrderStatusRequest{Status: "delivered"})

		require.NoError(t, err)
		assert.Equal(t, []string{trade.EventTypeOrderDelivered}, f.events.types())
		f.products.AssertNotCalled(t, "IncrementStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid transition is a business rule error", func(t *testing.T) {
		f := newOrderFixture()
		p := product(t, "A-1", 10, 10, 0)
		o := placedOrder(t, p, 1)
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := f.svc.UpdateStatus(ctx, o.ID, UpdateOrderStatusRequest{Status: "delivered"})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Equal(t, shared.KindBusinessRule, domainErr.Kind)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("pending order gives stock back", func(t *testing.T) {
		f := newOrderFixture()
		p := product(t, "A-1", 10, 10, 0)
		o := placedOrder(t, p, 2)
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
		f.returns.On("ExistsByOrderID", ctx, o.ID).Return(false, nil)
		f.products.On("IncrementStock", ctx, p.ID, 2).Return(nil)
		f.orders.On("Delete", ctx, o.ID).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, o.ID))
		f.products.AssertExpectations(t)
	})

	t.Run("shipped order cannot be deleted", func(t *testing.T) {
		f := newOrderFixture()
		p := product(t, "A-1", 10, 10, 0)
		o := placedOrder(t, p, 2)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Ship())
		f.orders.On("FindByID", ctx, o.ID).Return(o, nil)

		err := f.svc.Delete(ctx, o.ID)
		assert.Equal(t, shared.KindBusinessRule, shared.KindOf(err))
		f.orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
