package finance

import (
	"time"

	"github.com/exonyb/backoffice/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest represents a manual accounting entry.
// EntryDate defaults to today.
type CreateEntryRequest struct {
	EntryType   string          `json:"entry_type" binding:"required,oneof=income expense"`
	Category    string          `json:"category" binding:"required,oneof=sale refund purchase salary other"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
	EntryDate   *time.Time      `json:"entry_date"`
}

// UpdateEntryRequest represents a partial update of a manual entry
type UpdateEntryRequest struct {
	EntryType   *string          `json:"entry_type" binding:"omitempty,oneof=income expense"`
	Category    *string          `json:"category" binding:"omitempty,oneof=sale refund purchase salary other"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	EntryDate   *time.Time       `json:"entry_date"`
}

// EntryResponse represents an accounting entry in API responses
type EntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	EntryType   string          `json:"entry_type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	EntryDate   time.Time       `json:"entry_date"`
	OrderID     *uuid.UUID      `json:"order_id,omitempty"`
	ReturnID    *uuid.UUID      `json:"return_id,omitempty"`
	Automatic   bool            `json:"automatic"`
	CreatedBy   *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// EntryListFilter represents filter options for the entry list
type EntryListFilter struct {
	Search    string     `form:"search"`
	EntryType string     `form:"entry_type" binding:"omitempty,oneof=income expense"`
	Category  string     `form:"category" binding:"omitempty,oneof=sale refund purchase salary other"`
	DateFrom  *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SummaryFilter bounds the summary period; both ends are optional
type SummaryFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// ToEntryResponse converts a domain entry to a response
func ToEntryResponse(e *finance.AccountingEntry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		EntryType:   string(e.EntryType),
		Category:    string(e.Category),
		Amount:      e.Amount,
		Description: e.Description,
		EntryDate:   e.EntryDate,
		OrderID:     e.OrderID,
		ReturnID:    e.ReturnID,
		Automatic:   e.IsAutomatic(),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
