package finance

import (
	"strings"
	"time"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType distinguishes money coming in from money going out
type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

// IsValid checks if the type is known
func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// EntryCategory represents the category of an accounting entry
type EntryCategory string

const (
	CategorySale     EntryCategory = "sale"
	CategoryRefund   EntryCategory = "refund"
	CategoryPurchase EntryCategory = "purchase"
	CategorySalary   EntryCategory = "salary"
	CategoryOther    EntryCategory = "other"
)

// IsValid checks if the category is known
func (c EntryCategory) IsValid() bool {
	switch c {
	case CategorySale, CategoryRefund, CategoryPurchase, CategorySalary, CategoryOther:
		return true
	}
	return false
}

// AccountingEntry is one line of the shop's books. Automatic entries exist at
// most once per (category, order) and (category, return).
type AccountingEntry struct {
	shared.BaseEntity
	EntryType   EntryType       `gorm:"type:varchar(20);not null;index"`
	Category    EntryCategory   `gorm:"type:varchar(20);not null;index;uniqueIndex:uq_accounting_entries_order,priority:1;uniqueIndex:uq_accounting_entries_return,priority:1"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null;check:chk_accounting_entries_amount_positive,amount > 0"`
	Description string          `gorm:"type:varchar(500)"`
	EntryDate   time.Time       `gorm:"type:date;not null;index"`
	OrderID     *uuid.UUID      `gorm:"type:uuid;index;uniqueIndex:uq_accounting_entries_order,priority:2,where:order_id IS NOT NULL"`
	ReturnID    *uuid.UUID      `gorm:"type:uuid;index;uniqueIndex:uq_accounting_entries_return,priority:2,where:return_id IS NOT NULL"`
	CreatedBy   *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AccountingEntry) TableName() string {
	return "accounting_entries"
}

// NewAccountingEntry creates a manual entry
func NewAccountingEntry(entryType EntryType, category EntryCategory, amount decimal.Decimal, description string, entryDate time.Time, createdBy *uuid.UUID) (*AccountingEntry, error) {
	e := &AccountingEntry{
		BaseEntity: shared.NewBaseEntity(),
		CreatedBy:  createdBy,
	}
	if err := e.Update(entryType, category, amount, description, entryDate); err != nil {
		return nil, err
	}
	return e, nil
}

// NewSaleIncome creates the income entry recorded when an order is delivered
func NewSaleIncome(orderID uuid.UUID, orderNumber string, amount decimal.Decimal, createdBy *uuid.UUID) (*AccountingEntry, error) {
	e, err := NewAccountingEntry(EntryTypeIncome, CategorySale, amount, "Vente commande "+orderNumber, time.Now(), createdBy)
	if err != nil {
		return nil, err
	}
	e.OrderID = &orderID
	return e, nil
}

// NewRefundExpense creates the expense entry recorded when a return is refunded
func NewRefundExpense(returnID, orderID uuid.UUID, orderNumber string, amount decimal.Decimal, createdBy *uuid.UUID) (*AccountingEntry, error) {
	e, err := NewAccountingEntry(EntryTypeExpense, CategoryRefund, amount, "Remboursement retour commande "+orderNumber, time.Now(), createdBy)
	if err != nil {
		return nil, err
	}
	e.ReturnID = &returnID
	e.OrderID = &orderID
	return e, nil
}

// Update replaces the editable fields
func (e *AccountingEntry) Update(entryType EntryType, category EntryCategory, amount decimal.Decimal, description string, entryDate time.Time) error {
	if !entryType.IsValid() {
		return shared.NewBadRequestError("INVALID_ENTRY_TYPE", "Entry type must be income or expense")
	}
	if !category.IsValid() {
		return shared.NewBadRequestError("INVALID_CATEGORY", "Unknown accounting category")
	}
	if !amount.IsPositive() {
		return shared.NewBadRequestError("INVALID_AMOUNT", "Amount must be positive")
	}
	description = strings.TrimSpace(description)
	if len(description) > 500 {
		return shared.NewBadRequestError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if entryDate.IsZero() {
		entryDate = time.Now()
	}

	e.EntryType = entryType
	e.Category = category
	e.Amount = amount.Round(2)
	e.Description = description
	e.EntryDate = truncateToDay(entryDate)
	e.Touch()
	return nil
}

// IsAutomatic reports whether the entry was generated from an order or return
func (e *AccountingEntry) IsAutomatic() bool {
	return e.OrderID != nil || e.ReturnID != nil
}

// SignedAmount returns the amount, negated for expenses
func (e *AccountingEntry) SignedAmount() decimal.Decimal {
	if e.EntryType == EntryTypeExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
