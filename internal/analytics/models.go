package analytics

import "time"

// RevenueOverview summarizes money flow across the platform. All
// amounts are minor units in the property currency of each booking;
// totals here are only meaningful per currency, so the rollup is
// grouped by currency.
type RevenueOverview struct {
	Currencies  []CurrencyRevenue `json:"currencies"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type CurrencyRevenue struct {
	Currency            string `json:"currency"`
	BookedTotalMinor    int64  `json:"booked_total_minor"`
	CollectedTotalMinor int64  `json:"collected_total_minor"`
	RefundedTotalMinor  int64  `json:"refunded_total_minor"`
	DiscountTotalMinor  int64  `json:"discount_total_minor"`
	NetRevenueMinor     int64  `json:"net_revenue_minor"`
}

type BookingOverview struct {
	TotalBookings     int64            `json:"total_bookings"`
	BookingsByStatus  map[string]int64 `json:"bookings_by_status"`
	TotalRoomNights   int64            `json:"total_room_nights"`
	AverageStayNights float64          `json:"average_stay_nights"`
	AverageGuests     float64          `json:"average_guests"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

type CancellationOverview struct {
	TotalCancellations   int64     `json:"total_cancellations"`
	CancellationRate     float64   `json:"cancellation_rate"`
	RefundRequests       int64     `json:"refund_requests"`
	ApprovedRefunds      int64     `json:"approved_refunds"`
	RejectedRefunds      int64     `json:"rejected_refunds"`
	CompletedRefunds     int64     `json:"completed_refunds"`
	AverageDecisionHours float64   `json:"average_decision_hours"`
	GeneratedAt          time.Time `json:"generated_at"`
}

type PromotionOverview struct {
	ActivePromotions int64           `json:"active_promotions"`
	TotalRedemptions int64           `json:"total_redemptions"`
	TopPromotions    []PromotionStat `json:"top_promotions"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

type PromotionStat struct {
	Code            string `json:"code"`
	Redemptions     int64  `json:"redemptions"`
	DiscountedMinor int64  `json:"discounted_minor"`
	Currency        string `json:"currency"`
}

type PropertyAnalytics struct {
	PropertyID        string    `json:"property_id"`
	TotalBookings     int64     `json:"total_bookings"`
	ConfirmedBookings int64     `json:"confirmed_bookings"`
	CancelledBookings int64     `json:"cancelled_bookings"`
	BookedTotalMinor  int64     `json:"booked_total_minor"`
	CollectedMinor    int64     `json:"collected_minor"`
	RoomNights        int64     `json:"room_nights"`
	Currency          string    `json:"currency"`
	GeneratedAt       time.Time `json:"generated_at"`
}

type DailyBookingStats struct {
	Date         string `json:"date"`
	Bookings     int64  `json:"bookings"`
	RevenueMinor int64  `json:"revenue_minor"`
}

// DashboardAnalytics is the admin landing rollup
type DashboardAnalytics struct {
	Revenue       RevenueOverview      `json:"revenue"`
	Bookings      BookingOverview      `json:"bookings"`
	Cancellations CancellationOverview `json:"cancellations"`
	Promotions    PromotionOverview    `json:"promotions"`
	DailyTrend    []DailyBookingStats  `json:"daily_trend"`
	GeneratedAt   time.Time            `json:"generated_at"`
}
