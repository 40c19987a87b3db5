package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, defaultField otherwise.
// Only whitelisted names ever reach ORDER BY.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func withCommon(fields ...string) map[string]bool {
	m := map[string]bool{"created_at": true, "updated_at": true}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

var (
	ClientSortFields       = withCommon("first_name", "last_name", "email", "status")
	SupplierSortFields     = withCommon("name", "contact_name", "email", "status")
	ProductSortFields      = withCommon("reference", "name", "category", "sale_price", "purchase_price", "stock", "min_stock", "status")
	OrderSortFields        = withCommon("order_number", "status", "total_amount", "delivered_at")
	ReturnSortFields       = withCommon("status", "refund_amount", "processed_at")
	AccountingSortFields   = withCommon("entry_date", "amount", "entry_type", "category")
	NotificationSortFields = withCommon("type", "read_at")
	AuditLogSortFields     = map[string]bool{"created_at": true, "action": true, "entity_type": true}
	UserSortFields         = withCommon("email", "first_name", "last_name", "role", "status", "last_login_at")
)
