package refunds

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, refund *RefundRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*RefundRequest, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]RefundRequest, error)
	GetUserRefunds(ctx context.Context, userID uuid.UUID, query RefundListQuery) ([]RefundRequest, int64, error)
	GetAllRefunds(ctx context.Context, query RefundListQuery) ([]RefundRequest, int64, error)

	// Transition updates status with a compare-and-swap on the current
	// status so concurrent reviewers cannot double-decide a request.
	Transition(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) error

	// CommittedRefundTotal sums amounts already promised or paid out for
	// a booking: approved, processing and completed requests.
	CommittedRefundTotal(ctx context.Context, bookingID uuid.UUID) (int64, error)

	// HasOpenRequest reports whether a non-terminal request exists
	HasOpenRequest(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, refund *RefundRequest) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*RefundRequest, error) {
	var refund RefundRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&refund).Error
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]RefundRequest, error) {
	var refunds []RefundRequest
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&refunds).Error
	return refunds, err
}

func (r *repository) GetUserRefunds(ctx context.Context, userID uuid.UUID, query RefundListQuery) ([]RefundRequest, int64, error) {
	baseQuery := r.db.WithContext(ctx).
		Model(&RefundRequest{}).
		Where("user_id = ?", userID)
	return r.paginate(baseQuery, query)
}

func (r *repository) GetAllRefunds(ctx context.Context, query RefundListQuery) ([]RefundRequest, int64, error) {
	baseQuery := r.db.WithContext(ctx).Model(&RefundRequest{})
	return r.paginate(baseQuery, query)
}

func (r *repository) paginate(baseQuery *gorm.DB, query RefundListQuery) ([]RefundRequest, int64, error) {
	var refunds []RefundRequest
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}
	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&refunds).Error

	return refunds, totalCount, err
}

func (r *repository) Transition(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&RefundRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CommittedRefundTotal(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&RefundRequest{}).
		Where("booking_id = ? AND status IN ?", bookingID,
			[]Status{StatusApproved, StatusProcessing, StatusCompleted}).
		Select("COALESCE(SUM(approved_amount_minor), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) HasOpenRequest(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RefundRequest{}).
		Where("booking_id = ? AND status IN ?", bookingID,
			[]Status{StatusRequested, StatusUnderReview, StatusApproved, StatusProcessing}).
		Count(&count).Error
	return count > 0, err
}

// CalculateTotalPages computes page count for paginated listings
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
