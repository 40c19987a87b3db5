package persistence

import (
	"context"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "ORDER_NOT_FOUND", "Order not found")
	}
	return &order, nil
}

// FindByNumber finds an order by order number with its lines
func (r *GormOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	var order trade.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "order_number = ?", orderNumber).Error
	if err != nil {
		return nil, notFound(err, "ORDER_NOT_FOUND", "Order not found")
	}
	return &order, nil
}

// FindAll returns one page of orders without lines
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var orders []trade.Order
	query := page(r.filtered(ctx, filter), filter, OrderSortFields, "created_at")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

// ExistsByNumber checks if an order number is taken
func (r *GormOrderRepository) ExistsByNumber(ctx context.Context, orderNumber string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&trade.Order{}).Where("order_number = ?", orderNumber))
}

// Save inserts a new order together with its lines, or updates the order row only.
// Lines are immutable once the order exists.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	db := r.db.WithContext(ctx)
	found, err := exists(db.Model(&trade.Order{}).Where("id = ?", order.ID))
	if err != nil {
		return err
	}
	if !found {
		err = db.Create(order).Error
	} else {
		err = db.Omit(clause.Associations).Save(order).Error
	}
	return duplicate(err, "ORDER_NUMBER_EXISTS", "Order number already exists")
}

// Delete deletes an order and its lines
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&trade.OrderLine{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&trade.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil
	})
}

// CountByStatus groups orders created in [from, to) by status
func (r *GormOrderRepository) CountByStatus(ctx context.Context, from, to time.Time) ([]trade.StatusCount, error) {
	var rows []struct {
		Status string
		Count  int64
		Amount string
	}
	err := r.db.WithContext(ctx).
		Model(&trade.Order{}).
		Select("status, COUNT(*) AS count, CAST(COALESCE(SUM(total_amount), 0) AS TEXT) AS amount").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]trade.StatusCount, 0, len(rows))
	for _, row := range rows {
		amount, err := parseAmount(row.Amount)
		if err != nil {
			return nil, err
		}
		result = append(result, trade.StatusCount{
			Status: trade.OrderStatus(row.Status),
			Count:  row.Count,
			Amount: amount,
		})
	}
	return result, nil
}

// TopProducts returns the best sellers of non-cancelled orders created in [from, to)
func (r *GormOrderRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]trade.ProductSales, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []struct {
		ProductID        uuid.UUID
		ProductName      string
		ProductReference string
		Quantity         int64
		Revenue          string
	}
	err := r.db.WithContext(ctx).
		Table("order_lines AS l").
		Select(`l.product_id, MAX(l.product_name) AS product_name, MAX(l.product_reference) AS product_reference,
			SUM(l.quantity) AS quantity, CAST(SUM(l.subtotal) AS TEXT) AS revenue`).
		Joins("JOIN orders o ON o.id = l.order_id").
		Where("o.status <> ? AND o.created_at >= ? AND o.created_at < ?", trade.OrderStatusCancelled, from, to).
		Group("l.product_id").
		Order("quantity DESC, SUM(l.subtotal) DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]trade.ProductSales, 0, len(rows))
	for _, row := range rows {
		revenue, err := parseAmount(row.Revenue)
		if err != nil {
			return nil, err
		}
		result = append(result, trade.ProductSales{
			ProductID:        row.ProductID,
			ProductName:      row.ProductName,
			ProductReference: row.ProductReference,
			Quantity:         row.Quantity,
			Revenue:          revenue,
		})
	}
	return result, nil
}

func (r *GormOrderRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&trade.Order{})
	query = search(query, filter.Search, "order_number", "shipping_address")
	query = equals(query, filter, "client_id", "status")
	return dateRange(query, "created_at", filter)
}

// GormReturnRepository implements trade.ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return by ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Return, error) {
	var ret trade.Return
	if err := r.db.WithContext(ctx).First(&ret, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "RETURN_NOT_FOUND", "Return not found")
	}
	return &ret, nil
}

// FindByOrderID finds the return of an order
func (r *GormReturnRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*trade.Return, error) {
	var ret trade.Return
	if err := r.db.WithContext(ctx).First(&ret, "order_id = ?", orderID).Error; err != nil {
		return nil, notFound(err, "RETURN_NOT_FOUND", "Return not found")
	}
	return &ret, nil
}

// ExistsByOrderID checks if the order already has a return
func (r *GormReturnRepository) ExistsByOrderID(ctx context.Context, orderID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&trade.Return{}).Where("order_id = ?", orderID))
}

// FindAll returns one page of returns
func (r *GormReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Return, error) {
	var returns []trade.Return
	query := page(r.filtered(ctx, filter), filter, ReturnSortFields, "created_at")
	if err := query.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// Count counts returns matching the filter
func (r *GormReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

// Save creates or updates a return
func (r *GormReturnRepository) Save(ctx context.Context, ret *trade.Return) error {
	err := r.db.WithContext(ctx).Save(ret).Error
	return duplicate(err, "RETURN_ALREADY_EXISTS", "A return already exists for this order")
}

// Delete deletes a return
func (r *GormReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&trade.Return{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("RETURN_NOT_FOUND", "Return not found")
	}
	return nil
}

func (r *GormReturnRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&trade.Return{})
	query = search(query, filter.Search, "order_number", "reason")
	query = equals(query, filter, "status", "order_id")
	return dateRange(query, "created_at", filter)
}

var (
	_ trade.OrderRepository  = (*GormOrderRepository)(nil)
	_ trade.ReturnRepository = (*GormReturnRepository)(nil)
)
