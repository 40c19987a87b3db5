package persistence

import (
	"context"
	"time"

	"github.com/exonyb/backoffice/internal/domain/finance"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountingEntryRepository implements finance.AccountingEntryRepository using GORM
type GormAccountingEntryRepository struct {
	db *gorm.DB
}

// NewGormAccountingEntryRepository creates a new GormAccountingEntryRepository
func NewGormAccountingEntryRepository(db *gorm.DB) *GormAccountingEntryRepository {
	return &GormAccountingEntryRepository{db: db}
}

// FindByID finds an entry by ID
func (r *GormAccountingEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.AccountingEntry, error) {
	var entry finance.AccountingEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "ENTRY_NOT_FOUND", "Accounting entry not found")
	}
	return &entry, nil
}

// FindAll returns one page of entries
func (r *GormAccountingEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.AccountingEntry, error) {
	var entries []finance.AccountingEntry
	query := page(r.filtered(ctx, filter), filter, AccountingSortFields, "entry_date")
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts entries matching the filter
func (r *GormAccountingEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

// ExistsForOrder checks for an entry of the category tied to the order
func (r *GormAccountingEntryRepository) ExistsForOrder(ctx context.Context, category finance.EntryCategory, orderID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&finance.AccountingEntry{}).
		Where("category = ? AND order_id = ?", category, orderID))
}

// ExistsForReturn checks for an entry of the category tied to the return
func (r *GormAccountingEntryRepository) ExistsForReturn(ctx context.Context, category finance.EntryCategory, returnID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&finance.AccountingEntry{}).
		Where("category = ? AND return_id = ?", category, returnID))
}

// TotalsByType sums amounts per entry type over [from, to)
func (r *GormAccountingEntryRepository) TotalsByType(ctx context.Context, from, to *time.Time) ([]finance.TypeTotal, error) {
	var rows []struct {
		EntryType string
		Total     string
		Count     int64
	}
	query := r.db.WithContext(ctx).
		Model(&finance.AccountingEntry{}).
		Select("entry_type, CAST(COALESCE(SUM(amount), 0) AS TEXT) AS total, COUNT(*) AS count")
	if from != nil {
		query = query.Where("entry_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("entry_date < ?", *to)
	}
	if err := query.Group("entry_type").Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]finance.TypeTotal, 0, len(rows))
	for _, row := range rows {
		total, err := parseAmount(row.Total)
		if err != nil {
			return nil, err
		}
		totals = append(totals, finance.TypeTotal{
			EntryType: finance.EntryType(row.EntryType),
			Total:     total,
			Count:     row.Count,
		})
	}
	return totals, nil
}

// Save creates or updates an entry
func (r *GormAccountingEntryRepository) Save(ctx context.Context, entry *finance.AccountingEntry) error {
	return duplicate(r.db.WithContext(ctx).Save(entry).Error,
		"ENTRY_ALREADY_EXISTS", "An automatic entry already exists for this order or return")
}

// Delete deletes an entry
func (r *GormAccountingEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&finance.AccountingEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("ENTRY_NOT_FOUND", "Accounting entry not found")
	}
	return nil
}

func (r *GormAccountingEntryRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&finance.AccountingEntry{})
	query = search(query, filter.Search, "description")
	query = equals(query, filter, "entry_type", "category")
	return dateRange(query, "entry_date", filter)
}

var _ finance.AccountingEntryRepository = (*GormAccountingEntryRepository)(nil)
