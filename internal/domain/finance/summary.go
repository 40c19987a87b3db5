package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary totals the entries of a period
type Summary struct {
	From         *time.Time      `json:"from,omitempty"`
	To           *time.Time      `json:"to,omitempty"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	Count        int64           `json:"count"`
}

// TypeTotal is the sum of entries of one type, as returned by the repository
type TypeTotal struct {
	EntryType EntryType
	Total     decimal.Decimal
	Count     int64
}

// NewSummary folds per-type totals into a Summary
func NewSummary(from, to *time.Time, totals []TypeTotal) *Summary {
	s := &Summary{
		From:         from,
		To:           to,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, t := range totals {
		switch t.EntryType {
		case EntryTypeIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Total)
		case EntryTypeExpense:
			s.TotalExpense = s.TotalExpense.Add(t.Total)
		}
		s.Count += t.Count
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}
