package catalog

import (
	"context"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByReference(ctx context.Context, reference string) (*Product, error)
	// FindByIDs returns the products found among ids, in no particular order
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindLowStock returns active products whose stock is at or below MinStock
	FindLowStock(ctx context.Context) ([]Product, error)
	ExistsByReference(ctx context.Context, reference string) (bool, error)
	// IsReferencedByOrders checks if an order line points to the product
	IsReferencedByOrders(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically removes quantity units. It returns
	// ErrInsufficientStock when fewer units are available, leaving stock untouched.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
	// IncrementStock atomically adds quantity units
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
