package trade

import (
	"context"

	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/partner"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/exonyb/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderMetrics receives business counters for orders
type OrderMetrics interface {
	RecordOrderCreated(ctx context.Context, amount decimal.Decimal)
	RecordOrderStatusChanged(ctx context.Context, status string)
}

// OrderService handles order business operations
type OrderService struct {
	orderRepo      trade.OrderRepository
	clientRepo     partner.ClientRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	metrics        OrderMetrics
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, clientRepo partner.ClientRepository, txScope TransactionScope) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		clientRepo:     clientRepo,
		txScope:        txScope,
		eventPublisher: shared.NopPublisher{},
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the business metrics recorder
func (s *OrderService) SetMetrics(metrics OrderMetrics) {
	s.metrics = metrics
}

// Create places an order. Stock decrements, the order with its lines and the
// audit row commit in one transaction; any failure leaves stock untouched.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create")
	defer span.End()

	if len(req.Lines) == 0 {
		return nil, shared.NewBadRequestError("NO_LINES", "An order needs at least one line")
	}
	seen := make(map[uuid.UUID]bool, len(req.Lines))
	for _, line := range req.Lines {
		if seen[line.ProductID] {
			return nil, shared.NewBadRequestError("DUPLICATE_PRODUCT", "The same product cannot appear twice in an order")
		}
		seen[line.ProductID] = true
	}

	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive() {
		return nil, shared.NewBusinessRuleError("CLIENT_INACTIVE", "Client is inactive and cannot place orders")
	}

	actor := shared.ActorFromContext(ctx)
	order, err := trade.NewOrder(client.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	address := req.ShippingAddress
	if address == "" {
		address = client.Address
	}
	if err := order.SetShipping(address, req.Notes); err != nil {
		return nil, err
	}

	var stockEvents []shared.DomainEvent
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		products := repos.ProductRepo()
		for _, line := range req.Lines {
			product, err := products.FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if !product.IsActive() {
				return shared.NewBusinessRuleError("PRODUCT_INACTIVE", "Product "+product.Reference+" is not available for sale")
			}
			price := product.SalePrice
			if line.UnitPrice != nil {
				price = *line.UnitPrice
			}
			if _, err := order.AddLine(product.ID, product.Name, product.Reference, line.Quantity, price); err != nil {
				return err
			}

			if err := products.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				if shared.KindOf(err) == shared.KindBusinessRule {
					return shared.NewBusinessRuleError("INSUFFICIENT_STOCK", "Insufficient stock for product "+product.Reference)
				}
				return err
			}
			if event := stockLowAfter(product, line.Quantity); event != nil {
				stockEvents = append(stockEvents, event)
			}
		}

		if err := order.Place(); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		row := audit.NewAuditLog(actor, audit.ActionCreate, audit.EntityOrder, &order.ID, map[string]any{
			"order_number": order.OrderNumber,
			"client_id":    order.ClientID,
			"total_amount": order.TotalAmount.StringFixed(2),
			"lines":        len(order.Lines),
		})
		return repos.AuditRepo().Save(ctx, row)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, append(order.GetDomainEvents(), stockEvents...)...)
	order.ClearDomainEvents()
	if s.metrics != nil {
		s.metrics.RecordOrderCreated(ctx, order.TotalAmount)
	}

	logger.L(ctx).Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
	)
	telemetry.SetOK(span)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order with its lines
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves a page of orders
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		DateFrom: filter.DateFrom,
		DateTo:   shared.DayAfter(filter.DateTo),
		Filters:  make(map[string]any),
	}
	if filter.ClientID != "" {
		domainFilter.Filters["client_id"] = filter.ClientID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderListItemResponse(&orders[i])
	}
	return items, total, nil
}

// ListByClient retrieves a page of one client's orders
func (s *OrderService) ListByClient(ctx context.Context, clientID uuid.UUID, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, 0, err
	}
	filter.ClientID = clientID.String()
	return s.List(ctx, filter)
}

// UpdateStatus moves the order through its lifecycle. Cancelling a
// stock-holding order gives every line's quantity back in the same
// transaction as the status change and its audit row.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	target := trade.OrderStatus(req.Status)
	actor := shared.ActorFromContext(ctx)

	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		from := order.Status
		restock := target == trade.OrderStatusCancelled && from.HoldsStock()

		if err := order.ChangeStatus(target, req.Reason); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		if restock {
			for _, line := range order.Lines {
				if err := repos.ProductRepo().IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
		}

		details := map[string]any{
			"order_number": order.OrderNumber,
			"from":         string(from),
			"to":           string(target),
			"restocked":    restock,
		}
		if req.Reason != "" {
			details["reason"] = req.Reason
		}
		row := audit.NewAuditLog(actor, audit.ActionStatusChange, audit.EntityOrder, &order.ID, details)
		return repos.AuditRepo().Save(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order.GetDomainEvents()...)
	order.ClearDomainEvents()
	if s.metrics != nil {
		s.metrics.RecordOrderStatusChanged(ctx, string(order.Status))
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete removes a pending or cancelled order. A pending order still holds
// stock, which is restored.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	actor := shared.ActorFromContext(ctx)
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !order.CanDelete() {
			return shared.NewBusinessRuleError("INVALID_STATE", "Only pending or cancelled orders can be deleted")
		}
		hasReturn, err := repos.ReturnRepo().ExistsByOrderID(ctx, id)
		if err != nil {
			return err
		}
		if hasReturn {
			return shared.NewConflictError("ORDER_HAS_RETURN", "Order has a return and cannot be deleted")
		}

		if order.Status.HoldsStock() {
			for _, line := range order.Lines {
				if err := repos.ProductRepo().IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
		}
		if err := repos.OrderRepo().Delete(ctx, id); err != nil {
			return err
		}

		row := audit.NewAuditLog(actor, audit.ActionDelete, audit.EntityOrder, &order.ID, map[string]any{
			"order_number": order.OrderNumber,
			"status":       string(order.Status),
		})
		return repos.AuditRepo().Save(ctx, row)
	})
}

func (s *OrderService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("Failed to publish order events", zap.Int("count", len(events)), zap.Error(err))
	}
}

// stockLowAfter returns a ProductStockLow event when removing quantity units
// from product crosses its threshold downwards
func stockLowAfter(product *catalog.Product, quantity int) shared.DomainEvent {
	wasLow := product.IsLowStock()
	product.Stock -= quantity
	if !wasLow && product.IsLowStock() {
		return catalog.NewProductStockLowEvent(product)
	}
	return nil
}
