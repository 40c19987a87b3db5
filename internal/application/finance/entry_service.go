package finance

import (
	"context"
	"time"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/finance"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// EntryService handles accounting entry operations
type EntryService struct {
	entryRepo finance.AccountingEntryRepository
	recorder  *appaudit.Recorder
}

// NewEntryService creates a new EntryService
func NewEntryService(entryRepo finance.AccountingEntryRepository, recorder *appaudit.Recorder) *EntryService {
	return &EntryService{
		entryRepo: entryRepo,
		recorder:  recorder,
	}
}

// Create records a manual entry
func (s *EntryService) Create(ctx context.Context, req CreateEntryRequest) (*EntryResponse, error) {
	date := time.Now()
	if req.EntryDate != nil {
		date = *req.EntryDate
	}

	entry, err := finance.NewAccountingEntry(
		finance.EntryType(req.EntryType),
		finance.EntryCategory(req.Category),
		req.Amount,
		req.Description,
		date,
		shared.ActorFromContext(ctx).UserID,
	)
	if err != nil {
		return nil, err
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, audit.EntityAccounting, entry.ID, map[string]any{
		"entry_type": entry.EntryType,
		"category":   entry.Category,
		"amount":     entry.Amount.StringFixed(2),
	})

	response := ToEntryResponse(entry)
	return &response, nil
}

// GetByID retrieves an entry
func (s *EntryService) GetByID(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEntryResponse(entry)
	return &response, nil
}

// List retrieves a page of entries
func (s *EntryService) List(ctx context.Context, filter EntryListFilter) ([]EntryResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		DateFrom: filter.DateFrom,
		DateTo:   shared.DayAfter(filter.DateTo),
		Filters:  make(map[string]any),
	}
	if filter.EntryType != "" {
		domainFilter.Filters["entry_type"] = filter.EntryType
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	entries, err := s.entryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]EntryResponse, len(entries))
	for i := range entries {
		items[i] = ToEntryResponse(&entries[i])
	}
	return items, total, nil
}

// Update applies a partial update. Entries generated from orders and returns
// are read-only.
func (s *EntryService) Update(ctx context.Context, id uuid.UUID, req UpdateEntryRequest) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.IsAutomatic() {
		return nil, shared.NewBusinessRuleError("AUTOMATIC_ENTRY", "Entries generated from orders or returns cannot be modified")
	}

	entryType := entry.EntryType
	if req.EntryType != nil {
		entryType = finance.EntryType(*req.EntryType)
	}
	category := entry.Category
	if req.Category != nil {
		category = finance.EntryCategory(*req.Category)
	}
	amount := entry.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	description := entry.Description
	if req.Description != nil {
		description = *req.Description
	}
	date := entry.EntryDate
	if req.EntryDate != nil {
		date = *req.EntryDate
	}

	if err := entry.Update(entryType, category, amount, description, date); err != nil {
		return nil, err
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, audit.EntityAccounting, entry.ID, req)

	response := ToEntryResponse(entry)
	return &response, nil
}

// Delete removes a manual entry
func (s *EntryService) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.IsAutomatic() {
		return shared.NewBusinessRuleError("AUTOMATIC_ENTRY", "Entries generated from orders or returns cannot be deleted")
	}
	if err := s.entryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.ActionDelete, audit.EntityAccounting, id, map[string]any{
		"entry_type": entry.EntryType,
		"amount":     entry.Amount.StringFixed(2),
	})
	return nil
}

// Summary totals income and expense over an optional period
func (s *EntryService) Summary(ctx context.Context, filter SummaryFilter) (*finance.Summary, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, shared.NewBadRequestError("INVALID_PERIOD", "The end of the period is before its start")
	}
	totals, err := s.entryRepo.TotalsByType(ctx, filter.From, shared.DayAfter(filter.To))
	if err != nil {
		return nil, err
	}
	return finance.NewSummary(filter.From, filter.To, totals), nil
}
