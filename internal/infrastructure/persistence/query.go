package persistence

import (
	"errors"
	"strings"

	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// page applies whitelisted ordering and LIMIT/OFFSET
func page(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	filter.Normalize()
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return query.
		Order(field + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

// search adds a case-insensitive LIKE over the columns. LOWER/LIKE instead of
// ILIKE keeps the query portable to SQLite.
func search(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(term) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// dateRange bounds column by filter.DateFrom (inclusive) and filter.DateTo (exclusive).
// Services shift a calendar-day DateTo with shared.DayAfter before it gets here.
func dateRange(query *gorm.DB, column string, filter shared.Filter) *gorm.DB {
	if filter.DateFrom != nil {
		query = query.Where(column+" >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where(column+" < ?", *filter.DateTo)
	}
	return query
}

// equals adds "column = value" for every key of filter.Filters found in columns
func equals(query *gorm.DB, filter shared.Filter, columns ...string) *gorm.DB {
	for _, col := range columns {
		if v, ok := filter.Filters[col]; ok && v != nil && v != "" {
			query = query.Where(col+" = ?", v)
		}
	}
	return query
}

// notFound maps gorm.ErrRecordNotFound to the domain error, passing other errors through
func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(code, message)
	}
	return err
}

// duplicate maps a unique-constraint violation to a Conflict error
func duplicate(err error, code, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewConflictError(code, message)
	}
	return err
}

func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// parseAmount reads an aggregate cast to text. Postgres and SQLite format
// numeric sums differently, so the text form is the common ground.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(2), nil
}
