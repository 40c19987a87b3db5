package telemetry

import (
	"context"

	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics counts shop activity: orders, their value, status changes,
// returns and low-stock alerts. It receives order counters from the order
// service and the rest from the event bus.
type BusinessMetrics struct {
	ordersCreated  metric.Int64Counter
	orderRevenue   metric.Float64Counter
	statusChanges  metric.Int64Counter
	returns        metric.Int64Counter
	refunds        metric.Float64Counter
	stockLowAlerts metric.Int64Counter
}

// NewBusinessMetrics creates the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	bm := &BusinessMetrics{}
	var err error

	if bm.ordersCreated, err = meter.Int64Counter("backoffice.orders.created",
		metric.WithDescription("Orders created"), metric.WithUnit("{order}")); err != nil {
		return nil, err
	}
	if bm.orderRevenue, err = meter.Float64Counter("backoffice.orders.amount",
		metric.WithDescription("Total value of created orders"), metric.WithUnit("EUR")); err != nil {
		return nil, err
	}
	if bm.statusChanges, err = meter.Int64Counter("backoffice.orders.status_changes",
		metric.WithDescription("Order status transitions by target status")); err != nil {
		return nil, err
	}
	if bm.returns, err = meter.Int64Counter("backoffice.returns.requested",
		metric.WithDescription("Returns requested"), metric.WithUnit("{return}")); err != nil {
		return nil, err
	}
	if bm.refunds, err = meter.Float64Counter("backoffice.returns.refunded_amount",
		metric.WithDescription("Total refunded"), metric.WithUnit("EUR")); err != nil {
		return nil, err
	}
	if bm.stockLowAlerts, err = meter.Int64Counter("backoffice.products.stock_low",
		metric.WithDescription("Low stock alerts raised")); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordOrderCreated counts a committed order and its total
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, amount decimal.Decimal) {
	bm.ordersCreated.Add(ctx, 1)
	bm.orderRevenue.Add(ctx, amount.InexactFloat64())
}

// RecordOrderStatusChanged counts a transition to status
func (bm *BusinessMetrics) RecordOrderStatusChanged(ctx context.Context, status string) {
	bm.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// EventTypes lists the events counted from the bus
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		trade.EventTypeReturnRequested,
		trade.EventTypeReturnRefunded,
		catalog.EventTypeProductStockLow,
	}
}

// Handle implements shared.EventHandler
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.ReturnRequestedEvent:
		bm.returns.Add(ctx, 1)
	case *trade.ReturnRefundedEvent:
		bm.refunds.Add(ctx, e.RefundAmount.InexactFloat64())
	case *catalog.ProductStockLowEvent:
		outOfStock := e.Stock == 0
		bm.stockLowAlerts.Add(ctx, 1, metric.WithAttributes(attribute.Bool("out_of_stock", outOfStock)))
	}
	return nil
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
