package persistence

import (
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// applyDateRange restricts dateColumn to the filter's date range. A DateTo
// at midnight covers that whole day.
func applyDateRange(query *gorm.DB, filter shared.Filter, dateColumn string) *gorm.DB {
	if filter.DateFrom != nil {
		query = query.Where(dateColumn+" >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		to := *filter.DateTo
		if to.Equal(to.Truncate(24 * time.Hour)) {
			query = query.Where(dateColumn+" < ?", to.AddDate(0, 0, 1))
		} else {
			query = query.Where(dateColumn+" <= ?", to)
		}
	}
	return query
}

// applyOrderAndPage orders by a whitelisted field and selects the page.
// Ties are broken by id so pages are stable.
func applyOrderAndPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultSort string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultSort)
	dir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(field + " " + dir).Order("id " + dir)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// searchPattern returns the LIKE pattern for a case-insensitive search
func searchPattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// AccountSortFields contains allowed sort fields for accounts
var AccountSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"account_number": true,
	"balance":        true,
}

// TransactionSortFields contains allowed sort fields for ledger transactions
var TransactionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"date":       true,
	"amount":     true,
	"type":       true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"price":         true,
	"current_stock": true,
	"category_id":   true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"date":       true,
	"quantity":   true,
	"reason":     true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"contact_name":  true,
	"status":        true,
	"client_type":   true,
	"last_purchase": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"contact_name": true,
	"status":       true,
	"category":     true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"customer_id":  true,
	"status":       true,
	"total_amount": true,
	"date":         true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"customer_id":    true,
	"status":         true,
	"total_amount":   true,
	"date_issued":    true,
	"due_date":       true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"supplier_id":  true,
	"status":       true,
	"total_amount": true,
	"date":         true,
}
