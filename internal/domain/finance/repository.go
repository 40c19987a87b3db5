package finance

import (
	"context"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountingEntryRepository defines the interface for accounting entry persistence
type AccountingEntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AccountingEntry, error)
	// FindAll supports filter keys: entry_type, category; DateFrom/DateTo bound entry_date
	FindAll(ctx context.Context, filter shared.Filter) ([]AccountingEntry, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// ExistsForOrder checks for an automatic entry of the category tied to the order
	ExistsForOrder(ctx context.Context, category EntryCategory, orderID uuid.UUID) (bool, error)
	// ExistsForReturn checks for an automatic entry of the category tied to the return
	ExistsForReturn(ctx context.Context, category EntryCategory, returnID uuid.UUID) (bool, error)
	// TotalsByType sums amounts per entry type; nil bounds are open
	TotalsByType(ctx context.Context, from, to *time.Time) ([]TypeTotal, error)
	Save(ctx context.Context, entry *AccountingEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}
