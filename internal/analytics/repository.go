package analytics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetRevenueOverview() (*RevenueOverview, error)
	GetBookingOverview() (*BookingOverview, error)
	GetCancellationOverview() (*CancellationOverview, error)
	GetPromotionOverview() (*PromotionOverview, error)
	GetPropertyAnalytics(propertyID uuid.UUID) (*PropertyAnalytics, error)
	GetDailyBookingStats(days int) ([]DailyBookingStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetRevenueOverview() (*RevenueOverview, error) {
	var rows []CurrencyRevenue

	// Collected and refunded ride on subqueries so a booking with no
	// payments still contributes its booked total.
	err := r.db.Raw(`
		SELECT
			b.currency,
			COALESCE(SUM(b.grand_total_minor), 0)                       AS booked_total_minor,
			COALESCE(SUM(b.discount_minor), 0)                          AS discount_total_minor,
			COALESCE((SELECT SUM(p.amount_minor) FROM payments p
				JOIN bookings pb ON pb.id = p.booking_id
				WHERE pb.currency = b.currency), 0)                     AS collected_total_minor,
			COALESCE((SELECT SUM(rr.approved_amount_minor) FROM refund_requests rr
				WHERE rr.currency = b.currency
				AND rr.status = 'completed'), 0)                        AS refunded_total_minor
		FROM bookings b
		GROUP BY b.currency
		ORDER BY b.currency
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue overview: %w", err)
	}

	for i := range rows {
		rows[i].NetRevenueMinor = rows[i].CollectedTotalMinor - rows[i].RefundedTotalMinor
	}

	return &RevenueOverview{Currencies: rows, GeneratedAt: time.Now().UTC()}, nil
}

func (r *repository) GetBookingOverview() (*BookingOverview, error) {
	overview := &BookingOverview{
		BookingsByStatus: make(map[string]int64),
		GeneratedAt:      time.Now().UTC(),
	}

	var statusRows []struct {
		Status string
		Count  int64
	}
	err := r.db.Raw(`
		SELECT status, COUNT(*) AS count
		FROM bookings
		GROUP BY status
	`).Scan(&statusRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get booking status counts: %w", err)
	}
	for _, row := range statusRows {
		overview.BookingsByStatus[row.Status] = row.Count
		overview.TotalBookings += row.Count
	}

	var stayRow struct {
		TotalRoomNights int64
		AvgNights       float64
		AvgGuests       float64
	}
	err = r.db.Raw(`
		SELECT
			COALESCE(SUM(br.nights), 0)                                   AS total_room_nights,
			COALESCE(AVG(br.nights), 0)                                   AS avg_nights,
			COALESCE(AVG(br.adults + br.children), 0)                     AS avg_guests
		FROM booking_rooms br
	`).Scan(&stayRow).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get stay metrics: %w", err)
	}

	overview.TotalRoomNights = stayRow.TotalRoomNights
	overview.AverageStayNights = stayRow.AvgNights
	overview.AverageGuests = stayRow.AvgGuests

	return overview, nil
}

func (r *repository) GetCancellationOverview() (*CancellationOverview, error) {
	overview := &CancellationOverview{GeneratedAt: time.Now().UTC()}

	var bookingRow struct {
		Total     int64
		Cancelled int64
	}
	err := r.db.Raw(`
		SELECT
			COUNT(*)                                                       AS total,
			COUNT(*) FILTER (WHERE status = 'cancelled')                   AS cancelled
		FROM bookings
	`).Scan(&bookingRow).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get cancellation counts: %w", err)
	}

	overview.TotalCancellations = bookingRow.Cancelled
	if bookingRow.Total > 0 {
		overview.CancellationRate = float64(bookingRow.Cancelled) / float64(bookingRow.Total) * 100
	}

	var refundRow struct {
		Requests      int64
		Approved      int64
		Rejected      int64
		Completed     int64
		AvgDecisionHr float64
	}
	err = r.db.Raw(`
		SELECT
			COUNT(*)                                                                  AS requests,
			COUNT(*) FILTER (WHERE status IN ('approved','processing','completed'))   AS approved,
			COUNT(*) FILTER (WHERE status = 'rejected')                               AS rejected,
			COUNT(*) FILTER (WHERE status = 'completed')                              AS completed,
			COALESCE(AVG(EXTRACT(EPOCH FROM (decided_at - created_at)) / 3600.0)
				FILTER (WHERE decided_at IS NOT NULL), 0)                             AS avg_decision_hr
		FROM refund_requests
	`).Scan(&refundRow).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get refund counts: %w", err)
	}

	overview.RefundRequests = refundRow.Requests
	overview.ApprovedRefunds = refundRow.Approved
	overview.RejectedRefunds = refundRow.Rejected
	overview.CompletedRefunds = refundRow.Completed
	overview.AverageDecisionHours = refundRow.AvgDecisionHr

	return overview, nil
}

func (r *repository) GetPromotionOverview() (*PromotionOverview, error) {
	overview := &PromotionOverview{GeneratedAt: time.Now().UTC()}

	err := r.db.Raw(`
		SELECT COUNT(*) FROM promotions WHERE is_active = true
	`).Scan(&overview.ActivePromotions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count active promotions: %w", err)
	}

	err = r.db.Raw(`
		SELECT COUNT(*) FROM promotion_redemptions WHERE released_at IS NULL
	`).Scan(&overview.TotalRedemptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count redemptions: %w", err)
	}

	err = r.db.Raw(`
		SELECT
			p.code,
			COUNT(pr.id)                                  AS redemptions,
			COALESCE(SUM(pr.discount_minor), 0)           AS discounted_minor,
			p.currency
		FROM promotions p
		JOIN promotion_redemptions pr ON pr.promotion_id = p.id AND pr.released_at IS NULL
		GROUP BY p.id, p.code, p.currency
		ORDER BY redemptions DESC
		LIMIT 10
	`).Scan(&overview.TopPromotions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top promotions: %w", err)
	}

	return overview, nil
}

func (r *repository) GetPropertyAnalytics(propertyID uuid.UUID) (*PropertyAnalytics, error) {
	analytics := &PropertyAnalytics{
		PropertyID:  propertyID.String(),
		GeneratedAt: time.Now().UTC(),
	}

	var row struct {
		TotalBookings     int64
		ConfirmedBookings int64
		CancelledBookings int64
		BookedTotalMinor  int64
		Currency          string
	}
	err := r.db.Raw(`
		SELECT
			COUNT(*)                                                          AS total_bookings,
			COUNT(*) FILTER (WHERE status IN ('confirmed','checked_in','completed')) AS confirmed_bookings,
			COUNT(*) FILTER (WHERE status = 'cancelled')                      AS cancelled_bookings,
			COALESCE(SUM(grand_total_minor), 0)                               AS booked_total_minor,
			MAX(currency)                                                     AS currency
		FROM bookings
		WHERE property_id = ?
	`, propertyID).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get property booking metrics: %w", err)
	}

	analytics.TotalBookings = row.TotalBookings
	analytics.ConfirmedBookings = row.ConfirmedBookings
	analytics.CancelledBookings = row.CancelledBookings
	analytics.BookedTotalMinor = row.BookedTotalMinor
	analytics.Currency = row.Currency

	err = r.db.Raw(`
		SELECT COALESCE(SUM(p.amount_minor), 0)
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE b.property_id = ?
	`, propertyID).Scan(&analytics.CollectedMinor).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get property collected total: %w", err)
	}

	err = r.db.Raw(`
		SELECT COALESCE(SUM(br.nights), 0)
		FROM booking_rooms br
		JOIN bookings b ON b.id = br.booking_id
		WHERE b.property_id = ? AND b.status != 'cancelled'
	`, propertyID).Scan(&analytics.RoomNights).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get property room nights: %w", err)
	}

	return analytics, nil
}

func (r *repository) GetDailyBookingStats(days int) ([]DailyBookingStats, error) {
	if days <= 0 {
		days = 30
	}

	var stats []DailyBookingStats
	err := r.db.Raw(`
		SELECT
			TO_CHAR(created_at::date, 'YYYY-MM-DD')  AS date,
			COUNT(*)                                 AS bookings,
			COALESCE(SUM(grand_total_minor), 0)      AS revenue_minor
		FROM bookings
		WHERE created_at >= CURRENT_DATE - ?::int
		GROUP BY created_at::date
		ORDER BY created_at::date
	`, days).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily booking stats: %w", err)
	}

	return stats, nil
}
