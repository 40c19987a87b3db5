package catalog

import (
	"strings"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid reports whether the status is a known value
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Product (produit) is a sellable item with its on-hand stock.
// Stock is never negative; the database enforces it with a CHECK constraint as well.
type Product struct {
	shared.AggregateRoot
	Reference     string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Category      string          `gorm:"type:varchar(100);index"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock         int             `gorm:"not null;default:0;check:chk_products_stock_non_negative,stock >= 0"`
	MinStock      int             `gorm:"not null;default:0"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index"`
	ImageKey      string          `gorm:"type:varchar(500)"`
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product with zero stock
func NewProduct(reference, name string, salePrice decimal.Decimal) (*Product, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	name = strings.TrimSpace(name)

	if err := validateReference(reference); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice("sale price", salePrice); err != nil {
		return nil, err
	}

	return &Product{
		AggregateRoot: shared.NewAggregateRoot(),
		Reference:     reference,
		Name:          name,
		PurchasePrice: decimal.Zero,
		SalePrice:     salePrice.Round(2),
		Status:        ProductStatusActive,
	}, nil
}

// SetDetails updates name, description and category
func (p *Product) SetDetails(name, description, category string) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if len(category) > 100 {
		return shared.NewBadRequestError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}
	p.Name = name
	p.Description = description
	p.Category = strings.TrimSpace(category)
	p.Touch()
	return nil
}

// SetPrices updates purchase and sale prices
func (p *Product) SetPrices(purchasePrice, salePrice decimal.Decimal) error {
	if err := validatePrice("purchase price", purchasePrice); err != nil {
		return err
	}
	if err := validatePrice("sale price", salePrice); err != nil {
		return err
	}
	p.PurchasePrice = purchasePrice.Round(2)
	p.SalePrice = salePrice.Round(2)
	p.Touch()
	return nil
}

// SetMinStock sets the low-stock threshold
func (p *Product) SetMinStock(minStock int) error {
	if minStock < 0 {
		return shared.NewBadRequestError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}
	p.MinStock = minStock
	p.Touch()
	return nil
}

// SetInitialStock sets stock on a product that has not been persisted yet
func (p *Product) SetInitialStock(stock int) error {
	if stock < 0 {
		return shared.NewBadRequestError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.Stock = stock
	return nil
}

// SetSupplier links the product to a supplier, or unlinks it when nil
func (p *Product) SetSupplier(supplierID *uuid.UUID) {
	p.SupplierID = supplierID
	p.Touch()
}

// SetStatus changes the product status
func (p *Product) SetStatus(status ProductStatus) error {
	if !status.IsValid() {
		return shared.NewBadRequestError("INVALID_STATUS", "Invalid product status")
	}
	p.Status = status
	p.Touch()
	return nil
}

// SetImage records a new image key and returns the previous one
func (p *Product) SetImage(key string) string {
	previous := p.ImageKey
	p.ImageKey = key
	p.Touch()
	return previous
}

// IsActive returns true if the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsLowStock reports whether stock is at or below the threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// CanFulfil reports whether quantity units are available
func (p *Product) CanFulfil(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// ApplyStockDelta changes the in-memory stock by delta.
// It refuses any change that would make stock negative and raises
// ProductStockLow when the threshold is crossed downwards.
func (p *Product) ApplyStockDelta(delta int) error {
	next := p.Stock + delta
	if next < 0 {
		return shared.NewBusinessRuleError("INSUFFICIENT_STOCK",
			"Insufficient stock for product "+p.Reference)
	}
	wasLow := p.IsLowStock()
	p.Stock = next
	p.Touch()
	if !wasLow && p.IsLowStock() {
		p.AddDomainEvent(NewProductStockLowEvent(p))
	}
	return nil
}

func validateReference(reference string) error {
	if reference == "" {
		return shared.NewBadRequestError("INVALID_REFERENCE", "Product reference cannot be empty")
	}
	if len(reference) > 50 {
		return shared.NewBadRequestError("INVALID_REFERENCE", "Product reference cannot exceed 50 characters")
	}
	for _, r := range reference {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.') {
			return shared.NewBadRequestError("INVALID_REFERENCE", "Product reference can only contain letters, numbers, dots, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewBadRequestError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewBadRequestError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(field string, price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewBadRequestError("INVALID_PRICE", "Product "+field+" cannot be negative")
	}
	return nil
}
