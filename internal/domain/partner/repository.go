package partner

import (
	"context"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByEmail finds a client by email
	FindByEmail(ctx context.Context, email string) (*Client, error)

	// FindAll returns one page of clients matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)

	// Count counts clients matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByEmail checks if a client with the email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// HasOrders checks if the client is referenced by an order
	HasOrders(ctx context.Context, id uuid.UUID) (bool, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// Delete deletes a client
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByName(ctx context.Context, name string) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	// HasProducts checks if the supplier is referenced by a product
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}
