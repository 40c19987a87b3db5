package trade

import (
	"context"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusCount aggregates orders sharing a status
type StatusCount struct {
	Status OrderStatus
	Count  int64
	Amount decimal.Decimal
}

// ProductSales aggregates sold quantities of one product
type ProductSales struct {
	ProductID        uuid.UUID
	ProductName      string
	ProductReference string
	Quantity         int64
	Revenue          decimal.Decimal
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by order number with its lines
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll returns one page of orders (without lines) matching the filter.
	// Supported filter keys: client_id, status.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByNumber checks if an order number is taken
	ExistsByNumber(ctx context.Context, orderNumber string) (bool, error)

	// Save creates or updates an order. Lines are inserted on create only.
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStatus groups orders created in [from, to) by status
	CountByStatus(ctx context.Context, from, to time.Time) ([]StatusCount, error)

	// TopProducts returns the best sellers of non-cancelled orders created in [from, to)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
}

// ReturnRepository defines the interface for return persistence
type ReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Return, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Return, error)
	ExistsByOrderID(ctx context.Context, orderID uuid.UUID) (bool, error)
	// FindAll supports filter keys: status, order_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Return, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save creates or updates a return. A second return for the same order
	// fails with RETURN_ALREADY_EXISTS.
	Save(ctx context.Context, ret *Return) error
	Delete(ctx context.Context, id uuid.UUID) error
}
