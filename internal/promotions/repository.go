package promotions

import (
	"context"
	"errors"
	"time"

	"roomly/internal/pricing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, promotion *Promotion) error
	GetByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	GetByCode(ctx context.Context, code string) (*Promotion, error)
	GetByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]Promotion, error)
	Update(ctx context.Context, promotion *Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceRoomLinks(ctx context.Context, promotionID uuid.UUID, roomIDs []uuid.UUID) error

	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)

	// Redemption bookkeeping
	Redeem(ctx context.Context, promotionID, bookingID uuid.UUID, discountMinor int64, currency string) error
	Release(ctx context.Context, bookingID uuid.UUID) error
	GetRedemptionByBookingID(ctx context.Context, bookingID uuid.UUID) (*PromotionRedemption, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, promotion *Promotion) error {
	return r.db.WithContext(ctx).Create(promotion).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Promotion, error) {
	var promotion Promotion
	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Where("id = ?", id).
		First(&promotion).Error
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Promotion, error) {
	var promotion Promotion
	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Where("UPPER(code) = UPPER(?)", code).
		First(&promotion).Error
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *repository) GetByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]Promotion, error) {
	var promotions []Promotion
	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&promotions).Error
	return promotions, err
}

func (r *repository) Update(ctx context.Context, promotion *Promotion) error {
	promotion.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(promotion).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&PromotionRoom{}, "promotion_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Promotion{}, "id = ?", id).Error
	})
}

func (r *repository) ReplaceRoomLinks(ctx context.Context, promotionID uuid.UUID, roomIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&PromotionRoom{}, "promotion_id = ?", promotionID).Error; err != nil {
			return err
		}
		if len(roomIDs) == 0 {
			return nil
		}
		links := make([]PromotionRoom, 0, len(roomIDs))
		for _, roomID := range roomIDs {
			links = append(links, PromotionRoom{PromotionID: promotionID, RoomID: roomID})
		}
		return tx.Create(&links).Error
	})
}

// DeactivateExpired flips is_active off for promotions whose validity window
// has closed. The resolver rejects expired codes regardless; this keeps the
// catalog listings honest.
func (r *repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Promotion{}).
		Where("is_active = true AND valid_until < ?", now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// Redeem records a redemption and bumps the usage counter in one transaction.
// The guarded UPDATE keeps concurrent redemptions from blowing past the limit.
func (r *repository) Redeem(ctx context.Context, promotionID, bookingID uuid.UUID, discountMinor int64, currency string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Promotion{}).
			Where("id = ?", promotionID).
			Where("usage_limit = 0 OR usage_count < usage_limit").
			Update("usage_count", gorm.Expr("usage_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pricing.ErrPromotionExhausted
		}

		redemption := &PromotionRedemption{
			PromotionID:   promotionID,
			BookingID:     bookingID,
			DiscountMinor: discountMinor,
			Currency:      currency,
		}
		if err := tx.Create(redemption).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pricing.ErrPromotionAlreadyApplied
			}
			return err
		}
		return nil
	})
}

// Release frees a redemption when its booking is cancelled
func (r *repository) Release(ctx context.Context, bookingID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var redemption PromotionRedemption
		err := tx.Where("booking_id = ? AND released_at IS NULL", bookingID).
			First(&redemption).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // nothing to release
			}
			return err
		}

		now := time.Now()
		if err := tx.Model(&redemption).Update("released_at", now).Error; err != nil {
			return err
		}

		return tx.Model(&Promotion{}).
			Where("id = ? AND usage_count > 0", redemption.PromotionID).
			Update("usage_count", gorm.Expr("usage_count - 1")).Error
	})
}

func (r *repository) GetRedemptionByBookingID(ctx context.Context, bookingID uuid.UUID) (*PromotionRedemption, error) {
	var redemption PromotionRedemption
	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND released_at IS NULL", bookingID).
		First(&redemption).Error
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}
