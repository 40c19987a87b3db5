package catalog

import (
	"time"

	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Reference     string           `json:"reference" binding:"required,min=1,max=50"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description"`
	Category      string           `json:"category" binding:"max=100"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal  `json:"sale_price" binding:"required"`
	Stock         int              `json:"stock" binding:"min=0"`
	MinStock      int              `json:"min_stock" binding:"min=0"`
	SupplierID    *uuid.UUID       `json:"supplier_id"`
}

// UpdateProductRequest represents a partial product update.
// Stock is not updatable here; use AdjustStock.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	MinStock      *int             `json:"min_stock" binding:"omitempty,min=0"`
	SupplierID    *uuid.UUID       `json:"supplier_id"`
	ClearSupplier bool             `json:"clear_supplier"`
	Status        *string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

// AdjustStockRequest changes stock by a signed delta
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required,ne=0"`
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Reference     string          `json:"reference"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"min_stock"`
	LowStock      bool            `json:"low_stock"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	HasImage      bool            `json:"has_image"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=active inactive"`
	LowStock   bool   `form:"low_stock"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ImageURLResponse points at the product image
type ImageURLResponse struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Reference:     p.Reference,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Stock:         p.Stock,
		MinStock:      p.MinStock,
		LowStock:      p.IsLowStock(),
		SupplierID:    p.SupplierID,
		HasImage:      p.ImageKey != "",
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
