package persistence

import (
	"context"
	"strings"

	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/partner"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements partner.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	var client partner.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "CLIENT_NOT_FOUND", "Client not found")
	}
	return &client, nil
}

// FindByEmail finds a client by email
func (r *GormClientRepository) FindByEmail(ctx context.Context, email string) (*partner.Client, error) {
	var client partner.Client
	if err := r.db.WithContext(ctx).First(&client, "email = ?", strings.ToLower(email)).Error; err != nil {
		return nil, notFound(err, "CLIENT_NOT_FOUND", "Client not found")
	}
	return &client, nil
}

// FindAll returns one page of clients
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Client, error) {
	var clients []partner.Client
	query := page(r.filtered(ctx, filter), filter, ClientSortFields, "created_at")
	if err := query.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Count counts clients matching the filter
func (r *GormClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

// ExistsByEmail checks if a client with the email exists
func (r *GormClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&partner.Client{}).Where("email = ?", strings.ToLower(email)))
}

// HasOrders checks if an order references the client
func (r *GormClientRepository) HasOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&trade.Order{}).Where("client_id = ?", id))
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	err := r.db.WithContext(ctx).Save(client).Error
	return duplicate(err, "ALREADY_EXISTS", "A client with this email already exists")
}

// Delete deletes a client
func (r *GormClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Client{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("CLIENT_NOT_FOUND", "Client not found")
	}
	return nil
}

func (r *GormClientRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&partner.Client{})
	query = search(query, filter.Search, "first_name", "last_name", "email", "phone")
	return equals(query, filter, "status")
}

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "SUPPLIER_NOT_FOUND", "Supplier not found")
	}
	return &supplier, nil
}

// FindByName finds a supplier by exact name
func (r *GormSupplierRepository) FindByName(ctx context.Context, name string) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "name = ?", name).Error; err != nil {
		return nil, notFound(err, "SUPPLIER_NOT_FOUND", "Supplier not found")
	}
	return &supplier, nil
}

// FindAll returns one page of suppliers
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	var suppliers []partner.Supplier
	query := page(r.filtered(ctx, filter), filter, SupplierSortFields, "name")
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Count counts suppliers matching the filter
func (r *GormSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

// ExistsByName checks if a supplier with the name exists
func (r *GormSupplierRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&partner.Supplier{}).Where("name = ?", name))
}

// HasProducts checks if a product references the supplier
func (r *GormSupplierRepository) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&catalog.Product{}).Where("supplier_id = ?", id))
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	err := r.db.WithContext(ctx).Save(supplier).Error
	return duplicate(err, "ALREADY_EXISTS", "A supplier with this name already exists")
}

// Delete deletes a supplier
func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Supplier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("SUPPLIER_NOT_FOUND", "Supplier not found")
	}
	return nil
}

func (r *GormSupplierRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&partner.Supplier{})
	query = search(query, filter.Search, "name", "contact_name", "email")
	return equals(query, filter, "status")
}

var (
	_ partner.ClientRepository   = (*GormClientRepository)(nil)
	_ partner.SupplierRepository = (*GormSupplierRepository)(nil)
)
