package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// HoldsStock reports whether the order's lines are still deducted from stock
// and would have to be given back if the order disappeared.
func (s OrderStatus) HoldsStock() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// OrderLine (ligne de commande) is one product line of an order.
// Name, reference and price are snapshots taken when the order is placed.
type OrderLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	ProductReference string          `gorm:"type:varchar(50);not null"`
	Quantity         int             `gorm:"not null;check:chk_order_lines_quantity_positive,quantity > 0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrderLine creates a line and computes its subtotal
func NewOrderLine(orderID, productID uuid.UUID, productName, productReference string, quantity int, unitPrice decimal.Decimal) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewBadRequestError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewBadRequestError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewBadRequestError("INVALID_PRICE", "Unit price cannot be negative")
	}

	unitPrice = unitPrice.Round(2)
	return &OrderLine{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		ProductName:      productName,
		ProductReference: productReference,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		Subtotal:         unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		CreatedAt:        time.Now(),
	}, nil
}

// Order (commande) is the aggregate root for a client's purchase
type Order struct {
	shared.AggregateRoot
	OrderNumber     string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	ClientID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ShippingAddress string          `gorm:"type:varchar(500)"`
	Notes           string          `gorm:"type:text"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid"`
	ConfirmedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string      `gorm:"type:varchar(500)"`
	Lines           []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// GenerateOrderNumber returns a number of the form CMD-YYYYMMDD-XXXXXX
func GenerateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("CMD-%s-%s", now.Format("20060102"), suffix)
}

// NewOrder creates a new pending order without lines
func NewOrder(clientID uuid.UUID, createdBy *uuid.UUID) (*Order, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewBadRequestError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	return &Order{
		AggregateRoot: shared.NewAggregateRoot(),
		OrderNumber:   GenerateOrderNumber(time.Now()),
		ClientID:      clientID,
		Status:        OrderStatusPending,
		TotalAmount:   decimal.Zero,
		CreatedBy:     createdBy,
		Lines:         make([]OrderLine, 0),
	}, nil
}

// SetShipping sets the shipping address and notes
func (o *Order) SetShipping(address, notes string) error {
	if len(address) > 500 {
		return shared.NewBadRequestError("INVALID_ADDRESS", "Shipping address cannot exceed 500 characters")
	}
	o.ShippingAddress = strings.TrimSpace(address)
	o.Notes = notes
	o.Touch()
	return nil
}

// AddLine appends a product line. A product may appear only once per order.
func (o *Order) AddLine(productID uuid.UUID, productName, productReference string, quantity int, unitPrice decimal.Decimal) (*OrderLine, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewBusinessRuleError("INVALID_STATE", "Cannot add lines to a non-pending order")
	}
	for _, line := range o.Lines {
		if line.ProductID == productID {
			return nil, shared.NewBadRequestError("DUPLICATE_PRODUCT", "Product "+productReference+" appears more than once in the order")
		}
	}

	line, err := NewOrderLine(o.ID, productID, productName, productReference, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	o.Lines = append(o.Lines, *line)
	o.recalculateTotal()
	o.Touch()
	return line, nil
}

// Place checks the order is complete and raises OrderCreated
func (o *Order) Place() error {
	if len(o.Lines) == 0 {
		return shared.NewBadRequestError("NO_LINES", "An order needs at least one line")
	}
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return nil
}

// ChangeStatus applies a transition of the status table
func (o *Order) ChangeStatus(target OrderStatus, reason string) error {
	switch target {
	case OrderStatusConfirmed:
		return o.Confirm()
	case OrderStatusShipped:
		return o.Ship()
	case OrderStatusDelivered:
		return o.Deliver()
	case OrderStatusCancelled:
		return o.Cancel(reason)
	}
	return shared.NewBadRequestError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
}

// Confirm confirms a pending order
func (o *Order) Confirm() error {
	now, err := o.transition(OrderStatusConfirmed)
	if err != nil {
		return err
	}
	o.ConfirmedAt = &now
	return nil
}

// Ship marks a confirmed order as shipped
func (o *Order) Ship() error {
	now, err := o.transition(OrderStatusShipped)
	if err != nil {
		return err
	}
	o.ShippedAt = &now
	return nil
}

// Deliver marks a shipped order as delivered and raises OrderDelivered
func (o *Order) Deliver() error {
	now, err := o.transition(OrderStatusDelivered)
	if err != nil {
		return err
	}
	o.DeliveredAt = &now
	o.AddDomainEvent(NewOrderDeliveredEvent(o))
	return nil
}

// Cancel cancels a pending or confirmed order. The caller gives the stock back.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewBusinessRuleError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewBadRequestError("INVALID_REASON", "Cancel reason is required")
	}
	if len(reason) > 500 {
		return shared.NewBadRequestError("INVALID_REASON", "Cancel reason cannot exceed 500 characters")
	}
	now, err := o.transition(OrderStatusCancelled)
	if err != nil {
		return err
	}
	o.CancelledAt = &now
	o.CancelReason = reason
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

// CanDelete reports whether the order may be removed
func (o *Order) CanDelete() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusCancelled
}

// TotalQuantity returns the number of units across all lines
func (o *Order) TotalQuantity() int {
	total := 0
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

func (o *Order) transition(target OrderStatus) (time.Time, error) {
	if !o.Status.CanTransitionTo(target) {
		return time.Time{}, shared.NewBusinessRuleError("INVALID_STATE",
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now
	return now, nil
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Subtotal)
	}
	o.TotalAmount = total
}
