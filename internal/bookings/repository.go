package bookings

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Core booking operations
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingByRef(ctx context.Context, ref string) (*Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error

	// User booking operations
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)

	// Admin operations
	GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)

	// Payment tracking
	GetInstallmentByID(ctx context.Context, id uuid.UUID) (*PaymentInstallment, error)
	MarkInstallmentPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error
	CreatePayment(ctx context.Context, payment *Payment) error
	GetTotalPaid(ctx context.Context, bookingID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateBooking persists the booking aggregate in one transaction.
// Child rows ride along via GORM associations.
func (r *repository) CreateBooking(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Preload("Addons").
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Payments").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetBookingByRef(ctx context.Context, ref string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Preload("Installments").
		Where("booking_ref = ?", ref).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if cancelledAt != nil {
		updates["cancelled_at"] = *cancelledAt
	}

	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)
	return r.paginate(baseQuery, query)
}

func (r *repository) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	baseQuery := r.db.WithContext(ctx).Model(&Booking{})
	return r.paginate(baseQuery, query)
}

func (r *repository) paginate(baseQuery *gorm.DB, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery = r.applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Rooms").
		Preload("Installments").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) GetInstallmentByID(ctx context.Context, id uuid.UUID) (*PaymentInstallment, error) {
	var installment PaymentInstallment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&installment).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

func (r *repository) MarkInstallmentPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&PaymentInstallment{}).
		Where("id = ? AND status = ?", id, InstallmentPending).
		Updates(map[string]interface{}{
			"status":     InstallmentPaid,
			"paid_at":    paidAt,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) GetTotalPaid(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("booking_id = ?", bookingID).
		Select("COALESCE(SUM(amount_minor), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) applyFilters(query *gorm.DB, filters BookingListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("created_at >= ?", dateFrom)
		}
	}

	if filters.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			// Add 23:59:59 to include the entire day
			dateTo = dateTo.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			query = query.Where("created_at <= ?", dateTo)
		}
	}

	return query
}

// CalculateTotalPages computes page count for paginated listings
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
