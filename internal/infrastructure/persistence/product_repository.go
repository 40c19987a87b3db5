package persistence

import (
	"context"
	"strings"

	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "PRODUCT_NOT_FOUND", "Product not found")
	}
	return &product, nil
}

// FindByReference finds a product by reference
func (r *GormProductRepository) FindByReference(ctx context.Context, reference string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "reference = ?", strings.ToUpper(reference)).Error; err != nil {
		return nil, notFound(err, "PRODUCT_NOT_FOUND", "Product not found")
	}
	return &product, nil
}

// FindByIDs returns the products found among ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll returns one page of products.
// Filter keys: category, supplier_id, status, low_stock (bool).
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := page(r.filtered(ctx, filter), filter, ProductSortFields, "name")
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

// FindLowStock returns active products at or below their threshold
func (r *GormProductRepository) FindLowStock(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	err := r.db.WithContext(ctx).
		Where("status = ? AND stock <= min_stock", catalog.ProductStatusActive).
		Order("stock ASC, reference ASC").
		Find(&products).Error
	return products, err
}

// ExistsByReference checks if the reference is taken
func (r *GormProductRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&catalog.Product{}).Where("reference = ?", strings.ToUpper(reference)))
}

// IsReferencedByOrders checks if an order line points to the product
func (r *GormProductRepository) IsReferencedByOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&trade.OrderLine{}).Where("product_id = ?", id))
}

// Save creates or updates a product. Updates never write the stock column:
// stock only moves through DecrementStock and IncrementStock.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	db := r.db.WithContext(ctx)
	found, err := exists(db.Model(&catalog.Product{}).Where("id = ?", product.ID))
	if err != nil {
		return err
	}
	if !found {
		err = db.Create(product).Error
	} else {
		err = db.Omit("stock").Save(product).Error
	}
	return duplicate(err, "ALREADY_EXISTS", "A product with this reference already exists")
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
	}
	return nil
}

// DecrementStock removes quantity units with a single conditional UPDATE.
// When no row matches, the product is either missing or short of stock.
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewBadRequestError("INVALID_QUANTITY", "Quantity must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		found, err := exists(r.db.WithContext(ctx).Model(&catalog.Product{}).Where("id = ?", id))
		if err != nil {
			return err
		}
		if !found {
			return shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// IncrementStock adds quantity units
func (r *GormProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewBadRequestError("INVALID_QUANTITY", "Quantity must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", quantity),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
	}
	return nil
}

func (r *GormProductRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	query = search(query, filter.Search, "reference", "name")
	query = equals(query, filter, "category", "supplier_id", "status")
	if low, ok := filter.Filters["low_stock"].(bool); ok && low {
		query = query.Where("stock <= min_stock")
	}
	return query
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
