package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"whitespace around asc returns ASC", "  asc  ", "ASC"},
		{"invalid value returns DESC", "sideways", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE orders;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		allowed  map[string]bool
		expected string
	}{
		{"whitelisted product column", "sale_price", ProductSortFields, "sale_price"},
		{"common column on every entity", "updated_at", ClientSortFields, "updated_at"},
		{"column of another entity falls back", "stock", ClientSortFields, "name"},
		{"audit rows cannot sort by updated_at", "updated_at", AuditLogSortFields, "name"},
		{"case sensitive", "STOCK", ProductSortFields, "name"},
		{"injection attempt falls back", "name; DROP TABLE products;--", ProductSortFields, "name"},
		{"whitespace is trimmed", "  order_number ", OrderSortFields, "order_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowed, "name"))
		})
	}
}
