package persistence

import (
	"strings"
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

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"sku":         true,
	"category_id": true,
	"status":      true,
	"price":       true,
	"stock_qty":   true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"name":       true,
	"slug":       true,
	"sort_order": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"status":       true,
	"grand_total":  true,
	"paid_at":      true,
	"delivered_at": true,
}

// ReturnSortFields contains allowed sort fields for return requests
var ReturnSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"status":        true,
	"refund_amount": true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"status":      true,
	"amount":      true,
	"captured_at": true,
}

// EscrowSortFields contains allowed sort fields for escrow entries
var EscrowSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"status":      true,
	"net_amount":  true,
	"released_at": true,
}

// CommissionRuleSortFields contains allowed sort fields for commission rules
var CommissionRuleSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"priority":     true,
	"rate_percent": true,
	"active_from":  true,
}

// SettlementSortFields contains allowed sort fields for settlements
var SettlementSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"period_year":  true,
	"period_month": true,
	"status":       true,
	"net_payable":  true,
}

// PayoutSortFields contains allowed sort fields for payouts
var PayoutSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"scheduled_for": true,
	"status":        true,
	"amount":        true,
	"paid_at":       true,
}

// SellerProfileSortFields contains allowed sort fields for seller profiles
var SellerProfileSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"store_name": true,
	"slug":       true,
	"status":     true,
}

// KYCSortFields contains allowed sort fields for KYC submissions
var KYCSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"round":      true,
	"status":     true,
}
