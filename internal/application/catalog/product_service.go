package catalog

import (
	"context"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	apptrade "github.com/exonyb/backoffice/internal/application/trade"
	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/partner"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	supplierRepo   partner.SupplierRepository
	txScope        apptrade.TransactionScope
	recorder       *appaudit.Recorder
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	txScope apptrade.TransactionScope,
	recorder *appaudit.Recorder,
) *ProductService {
	return &ProductService{
		productRepo:    productRepo,
		supplierRepo:   supplierRepo,
		txScope:        txScope,
		recorder:       recorder,
		eventPublisher: shared.NopPublisher{},
	}
}

// SetEventPublisher sets the publisher used for stock events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Reference, req.Name, req.SalePrice)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsByReference(ctx, product.Reference)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("ALREADY_EXISTS", "A product with this reference already exists")
	}

	if err := product.SetDetails(req.Name, req.Description, req.Category); err != nil {
		return nil, err
	}
	if req.PurchasePrice != nil {
		if err := product.SetPrices(*req.PurchasePrice, req.SalePrice); err != nil {
			return nil, err
		}
	}
	if err := product.SetInitialStock(req.Stock); err != nil {
		return nil, err
	}
	if err := product.SetMinStock(req.MinStock); err != nil {
		return nil, err
	}
	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *req.SupplierID); err != nil {
			return nil, err
		}
		product.SetSupplier(req.SupplierID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, audit.EntityProduct, product.ID, map[string]any{
		"reference": product.Reference,
		"stock":     product.Stock,
	})

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a page of products
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.SupplierID != "" {
		domainFilter.Filters["supplier_id"] = filter.SupplierID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.LowStock {
		domainFilter.Filters["low_stock"] = true
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Category != nil {
		name, description, category := product.Name, product.Description, product.Category
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.Category != nil {
			category = *req.Category
		}
		if err := product.SetDetails(name, description, category); err != nil {
			return nil, err
		}
	}
	if req.PurchasePrice != nil || req.SalePrice != nil {
		purchase, sale := product.PurchasePrice, product.SalePrice
		if req.PurchasePrice != nil {
			purchase = *req.PurchasePrice
		}
		if req.SalePrice != nil {
			sale = *req.SalePrice
		}
		if err := product.SetPrices(purchase, sale); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}
	if req.ClearSupplier {
		product.SetSupplier(nil)
	} else if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *req.SupplierID); err != nil {
			return nil, err
		}
		product.SetSupplier(req.SupplierID)
	}
	if req.Status != nil {
		if err := product.SetStatus(catalog.ProductStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, audit.EntityProduct, product.ID, req)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product that no order line references
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	inUse, err := s.productRepo.IsReferencedByOrders(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return shared.NewConflictError("PRODUCT_IN_USE", "Product is referenced by orders and cannot be deleted")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.ActionDelete, audit.EntityProduct, id, map[string]any{"reference": product.Reference})
	return nil
}

// AdjustStock moves stock by a signed delta. The change and its audit row
// commit together; a result below zero fails with INSUFFICIENT_STOCK.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	if req.Delta == 0 {
		return nil, shared.NewBadRequestError("INVALID_QUANTITY", "Delta cannot be zero")
	}

	var product *catalog.Product
	err := s.txScope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := product.Stock
		if err := product.ApplyStockDelta(req.Delta); err != nil {
			return err
		}

		if req.Delta < 0 {
			err = repos.ProductRepo().DecrementStock(ctx, id, -req.Delta)
		} else {
			err = repos.ProductRepo().IncrementStock(ctx, id, req.Delta)
		}
		if err != nil {
			return err
		}

		row := audit.NewAuditLog(shared.ActorFromContext(ctx), audit.ActionStockAdjust, audit.EntityProduct, &product.ID, map[string]any{
			"delta":  req.Delta,
			"before": before,
			"after":  product.Stock,
			"reason": req.Reason,
		})
		return repos.AuditRepo().Save(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("Failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
	product.ClearDomainEvents()
}
