package partner

import (
	"context"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/partner"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	recorder     *appaudit.Recorder
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, recorder *appaudit.Recorder) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		recorder:     recorder,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.supplierRepo.ExistsByName(ctx, supplier.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("ALREADY_EXISTS", "A supplier with this name already exists")
	}

	if err := supplier.SetContact(req.ContactName, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}
	if req.Notes != "" {
		supplier.SetNotes(req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, audit.EntitySupplier, supplier.ID, map[string]any{"name": supplier.Name})

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves a page of suppliers
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a supplier
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != supplier.Name {
		exists, err := s.supplierRepo.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewConflictError("ALREADY_EXISTS", "A supplier with this name already exists")
		}
		if err := supplier.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.Email != nil || req.Phone != nil || req.Address != nil {
		err := supplier.SetContact(
			valueOr(req.ContactName, supplier.ContactName),
			valueOr(req.Email, supplier.Email),
			valueOr(req.Phone, supplier.Phone),
			valueOr(req.Address, supplier.Address),
		)
		if err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := supplier.SetStatus(partner.SupplierStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		supplier.SetNotes(*req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, audit.EntitySupplier, supplier.ID, req)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete deletes a supplier that no product references
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hasProducts, err := s.supplierRepo.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if hasProducts {
		return shared.NewConflictError("SUPPLIER_HAS_PRODUCTS", "Supplier has products and cannot be deleted")
	}

	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.ActionDelete, audit.EntitySupplier, id, map[string]any{"name": supplier.Name})
	return nil
}
