package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the Roomly application
// Pattern: roomly:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour // 24 hours - for very stable data
	TTL_STATIC_MEDIUM = 12 * time.Hour // 12 hours - for structural data
	TTL_STATIC_SHORT  = 6 * time.Hour  // 6 hours - for catalogs
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_LONG   = 4 * time.Hour    // 4 hours - for room inventories
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for property details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // 1 hour - for property listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for search results
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for analytics
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for promotion usage
	TTL_DYNAMIC_QUICK  = 2 * time.Minute  // 2 minutes - for availability checks
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_MEDIUM = 1 * time.Minute  // 1 minute - for quote previews
	TTL_REALTIME_SHORT  = 30 * time.Second // 30 seconds - for live room counts
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "roomly"
)

// ================== PROPERTIES MODULE ==================

const (
	CACHE_KEY_PROPERTIES_LIST   = CACHE_PREFIX + ":properties:list"         // + :page:X:limit:Y:status:Z
	CACHE_KEY_PROPERTIES_SEARCH = CACHE_PREFIX + ":properties:search"       // + :query:X:page:Y
	CACHE_KEY_PROPERTY_DETAIL   = CACHE_PREFIX + ":properties:detail:uuid:" // + property-id
	CACHE_KEY_PROPERTY_ROOMS    = CACHE_PREFIX + ":properties:rooms:uuid:"  // + property-id
	CACHE_KEY_ROOM_DETAIL       = CACHE_PREFIX + ":rooms:detail:uuid:"      // + room-id
)

const (
	TTL_PROPERTY_LIST   = TTL_SEMI_STATIC_SHORT  // 1 hour
	TTL_PROPERTY_DETAIL = TTL_SEMI_STATIC_MEDIUM // 2 hours
	TTL_PROPERTY_SEARCH = TTL_SEMI_STATIC_QUICK  // 15 minutes
	TTL_PROPERTY_ROOMS  = TTL_SEMI_STATIC_LONG   // 4 hours
	TTL_ROOM_DETAIL     = TTL_SEMI_STATIC_MEDIUM // 2 hours
)

// ================== ADDONS MODULE ==================

const (
	CACHE_KEY_ADDONS_BY_PROPERTY = CACHE_PREFIX + ":addons:property:uuid:" // + property-id
	CACHE_KEY_ADDON_DETAIL       = CACHE_PREFIX + ":addons:detail:uuid:"   // + addon-id
)

const (
	TTL_ADDONS_BY_PROPERTY = TTL_STATIC_SHORT // 6 hours
	TTL_ADDON_DETAIL       = TTL_STATIC_SHORT // 6 hours
)

// ================== PROMOTIONS MODULE ==================

const (
	CACHE_KEY_PROMOTION_BY_CODE = CACHE_PREFIX + ":promotions:detail:code:" // + promo-code
	CACHE_KEY_PROMOTION_USAGE   = CACHE_PREFIX + ":promotions:usage:uuid:"  // + promotion-id
	CACHE_KEY_PROMOTIONS_ACTIVE = CACHE_PREFIX + ":promotions:active:property:" // + property-id
)

const (
	TTL_PROMOTION_DETAIL = TTL_SEMI_STATIC_SHORT // 1 hour
	TTL_PROMOTION_USAGE  = TTL_DYNAMIC_SHORT     // 5 minutes
	TTL_PROMOTION_ACTIVE = TTL_SEMI_STATIC_QUICK // 15 minutes
)

// ================== POLICIES MODULE ==================

const (
	CACHE_KEY_PAYMENT_RULES_ROOM     = CACHE_PREFIX + ":policies:payment_rules:room:"     // + room-id
	CACHE_KEY_PAYMENT_RULES_PROPERTY = CACHE_PREFIX + ":policies:payment_rules:property:" // + property-id
	CACHE_KEY_CANCELLATION_POLICY    = CACHE_PREFIX + ":policies:cancellation:uuid:"      // + policy-id
)

const (
	TTL_PAYMENT_RULES       = TTL_SEMI_STATIC_MEDIUM // 2 hours
	TTL_CANCELLATION_POLICY = TTL_SEMI_STATIC_MEDIUM // 2 hours
)

// ================== AVAILABILITY MODULE ==================

const (
	CACHE_KEY_ROOM_AVAILABILITY = CACHE_PREFIX + ":availability:room:"       // + room-id:from:X:to:Y
	CACHE_KEY_ROOM_HOLD         = CACHE_PREFIX + ":availability:hold:room:"  // + room-id:date:YYYY-MM-DD
	CACHE_KEY_BULK_AVAILABILITY = CACHE_PREFIX + ":availability:bulk_check:" // + property-id:hash
)

const (
	TTL_ROOM_AVAILABILITY = TTL_DYNAMIC_QUICK  // 2 minutes
	TTL_BULK_AVAILABILITY = TTL_REALTIME_SHORT // 30 seconds
)

// ================== BOOKINGS MODULE ==================

const (
	CACHE_KEY_USER_BOOKINGS   = CACHE_PREFIX + ":bookings:user:uuid:"    // + user-id:page:X
	CACHE_KEY_BOOKING_DETAIL  = CACHE_PREFIX + ":bookings:detail:uuid:"  // + booking-id
	CACHE_KEY_BOOKING_QUOTE   = CACHE_PREFIX + ":bookings:quote:uuid:"   // + quote-id
	CACHE_KEY_BOOKING_HISTORY = CACHE_PREFIX + ":bookings:history:user:" // + user-id
)

const (
	TTL_USER_BOOKINGS  = TTL_DYNAMIC_MEDIUM  // 10 minutes
	TTL_BOOKING_DETAIL = TTL_DYNAMIC_MEDIUM  // 10 minutes
	TTL_BOOKING_QUOTE  = TTL_REALTIME_MEDIUM // 1 minute
)

// ================== REFUNDS MODULE ==================

const (
	CACHE_KEY_REFUND_DETAIL  = CACHE_PREFIX + ":refunds:detail:uuid:"  // + refund-id
	CACHE_KEY_USER_REFUNDS   = CACHE_PREFIX + ":refunds:user:uuid:"    // + user-id
	CACHE_KEY_REFUND_PENDING = CACHE_PREFIX + ":refunds:pending:admin" // review queue
)

const (
	TTL_REFUND_DETAIL  = TTL_DYNAMIC_MEDIUM // 10 minutes
	TTL_USER_REFUNDS   = TTL_DYNAMIC_MEDIUM // 10 minutes
	TTL_REFUND_PENDING = TTL_DYNAMIC_SHORT  // 5 minutes
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_ANALYTICS_DASHBOARD    = CACHE_PREFIX + ":analytics:dashboard:admin"
	CACHE_KEY_ANALYTICS_REVENUE      = CACHE_PREFIX + ":analytics:revenue:overview"
	CACHE_KEY_ANALYTICS_PROPERTY     = CACHE_PREFIX + ":analytics:property:uuid:" // + property-id
	CACHE_KEY_ANALYTICS_BOOKINGS     = CACHE_PREFIX + ":analytics:bookings:overview"
	CACHE_KEY_ANALYTICS_CANCELLATION = CACHE_PREFIX + ":analytics:cancellations"
	CACHE_KEY_ANALYTICS_PROMOTIONS   = CACHE_PREFIX + ":analytics:promotions:overview"
)

const (
	TTL_ANALYTICS_DASHBOARD    = TTL_SEMI_STATIC_SHORT // 1 hour
	TTL_ANALYTICS_REVENUE      = TTL_DYNAMIC_MEDIUM    // 10 minutes
	TTL_ANALYTICS_PROPERTY     = TTL_SEMI_STATIC_SHORT // 1 hour
	TTL_ANALYTICS_BOOKINGS     = TTL_DYNAMIC_MEDIUM    // 10 minutes
	TTL_ANALYTICS_CANCELLATION = TTL_DYNAMIC_MEDIUM    // 10 minutes
	TTL_ANALYTICS_PROMOTIONS   = TTL_DYNAMIC_MEDIUM    // 10 minutes
)

// ================== CACHE INVALIDATION PATTERNS ==================

// Patterns for cache invalidation (used with Redis KEYS command or manual invalidation)
const (
	PATTERN_INVALIDATE_PROPERTIES_ALL = CACHE_PREFIX + ":properties:*"
	PATTERN_INVALIDATE_ADDONS_ALL     = CACHE_PREFIX + ":addons:*"
	PATTERN_INVALIDATE_PROMOTIONS_ALL = CACHE_PREFIX + ":promotions:*"
	PATTERN_INVALIDATE_POLICIES_ALL   = CACHE_PREFIX + ":policies:*"
	PATTERN_INVALIDATE_USER_ALL       = CACHE_PREFIX + ":*:user:*" // + user-id + *
	PATTERN_INVALIDATE_ANALYTICS      = CACHE_PREFIX + ":analytics:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildPropertyListKey constructs the property listing cache key
// Example: BuildPropertyListKey(1, 10, "active") -> "roomly:properties:list:page:1:limit:10:status:active"
func BuildPropertyListKey(page, limit int, status string) string {
	if status != "" {
		return CACHE_KEY_PROPERTIES_LIST + ":page:" + fmt.Sprintf("%d", page) + ":limit:" + fmt.Sprintf("%d", limit) + ":status:" + status
	}
	return CACHE_KEY_PROPERTIES_LIST + ":page:" + fmt.Sprintf("%d", page) + ":limit:" + fmt.Sprintf("%d", limit)
}

func BuildPropertyDetailKey(propertyID string) string {
	return CACHE_KEY_PROPERTY_DETAIL + propertyID
}

func BuildPropertyRoomsKey(propertyID string) string {
	return CACHE_KEY_PROPERTY_ROOMS + propertyID
}

func BuildRoomDetailKey(roomID string) string {
	return CACHE_KEY_ROOM_DETAIL + roomID
}

func BuildAddonsByPropertyKey(propertyID string) string {
	return CACHE_KEY_ADDONS_BY_PROPERTY + propertyID
}

func BuildPromotionByCodeKey(code string) string {
	return CACHE_KEY_PROMOTION_BY_CODE + code
}

func BuildPaymentRulesRoomKey(roomID string) string {
	return CACHE_KEY_PAYMENT_RULES_ROOM + roomID
}

func BuildPaymentRulesPropertyKey(propertyID string) string {
	return CACHE_KEY_PAYMENT_RULES_PROPERTY + propertyID
}

func BuildCancellationPolicyKey(policyID string) string {
	return CACHE_KEY_CANCELLATION_POLICY + policyID
}

func BuildRoomAvailabilityKey(roomID, from, to string) string {
	return CACHE_KEY_ROOM_AVAILABILITY + roomID + ":from:" + from + ":to:" + to
}

func BuildUserBookingsKey(userID string, page int) string {
	return CACHE_KEY_USER_BOOKINGS + userID + ":page:" + fmt.Sprintf("%d", page)
}

func BuildBookingDetailKey(bookingID string) string {
	return CACHE_KEY_BOOKING_DETAIL + bookingID
}

func BuildRefundDetailKey(refundID string) string {
	return CACHE_KEY_REFUND_DETAIL + refundID
}

func BuildAnalyticsPropertyKey(propertyID string) string {
	return CACHE_KEY_ANALYTICS_PROPERTY + propertyID
}
