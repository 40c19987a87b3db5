package catalog

import (
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeProduct is the aggregate type of product events
const AggregateTypeProduct = "Product"

// EventTypeProductStockLow is raised when stock reaches the low-stock threshold
const EventTypeProductStockLow = "ProductStockLow"

// ProductStockLowEvent is published when a product's stock falls to or below MinStock
type ProductStockLowEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	MinStock  int       `json:"min_stock"`
}

// NewProductStockLowEvent creates a new ProductStockLowEvent
func NewProductStockLowEvent(p *Product) *ProductStockLowEvent {
	return &ProductStockLowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockLow, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Reference:       p.Reference,
		Name:            p.Name,
		Stock:           p.Stock,
		MinStock:        p.MinStock,
	}
}
