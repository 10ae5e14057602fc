package promotions

import (
	"time"

	"roomly/internal/pricing"

	"github.com/google/uuid"
)

type Promotion struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	PropertyID   uuid.UUID  `json:"property_id" gorm:"type:uuid;not null;index"`
	Code         string     `json:"code" gorm:"uniqueIndex;not null;size:50"`
	Description  string     `json:"description" gorm:"size:500"`
	DiscountType string     `json:"discount_type" gorm:"type:varchar(20);not null"` // percentage | fixed
	Value        int64      `json:"value" gorm:"not null;check:value >= 0"`
	Currency     string     `json:"currency" gorm:"size:3"` // set for fixed discounts
	ValidFrom    time.Time  `json:"valid_from" gorm:"not null"`
	ValidUntil   time.Time  `json:"valid_until" gorm:"not null"`
	UsageLimit   int        `json:"usage_limit" gorm:"default:0"` // 0 means unlimited
	UsageCount   int        `json:"usage_count" gorm:"default:0;check:usage_count >= 0"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	CreatedBy    uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy    *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Rooms []PromotionRoom `json:"-" gorm:"foreignKey:PromotionID;constraint:OnDelete:CASCADE;"`
}

// PromotionRoom restricts a promotion to specific rooms; no rows means property-wide
type PromotionRoom struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	PromotionID uuid.UUID `json:"promotion_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_promotion_room_unique"`
	RoomID      uuid.UUID `json:"room_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_promotion_room_unique"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// PromotionRedemption records a promotion applied to a booking.
// The unique booking index enforces at most one promotion per booking.
type PromotionRedemption struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	PromotionID   uuid.UUID `json:"promotion_id" gorm:"type:uuid;not null;index"`
	// Uniqueness of the live redemption per booking is enforced by a
	// partial index in MigrateConstraints, so a released redemption does
	// not block a later booking retry.
	BookingID uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	DiscountMinor int64     `json:"discount_minor" gorm:"not null"`
	Currency      string    `json:"currency" gorm:"not null;size:3"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	ReleasedAt    *time.Time `json:"released_at"`
}

type PromotionResponse struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"property_id"`
	Code         string    `json:"code"`
	Description  string    `json:"description"`
	DiscountType string    `json:"discount_type"`
	Value        int64     `json:"value"`
	Currency     string    `json:"currency,omitempty"`
	ValidFrom    time.Time `json:"valid_from"`
	ValidUntil   time.Time `json:"valid_until"`
	UsageLimit   int       `json:"usage_limit"`
	UsageCount   int       `json:"usage_count"`
	IsActive     bool      `json:"is_active"`
	RoomIDs      []string  `json:"room_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreatePromotionRequest struct {
	Code         string    `json:"code" binding:"required,min=3,max=50,alphanum"`
	Description  string    `json:"description" binding:"max=500"`
	DiscountType string    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	Value        int64     `json:"value" binding:"required,min=1"`
	ValidFrom    time.Time `json:"valid_from" binding:"required"`
	ValidUntil   time.Time `json:"valid_until" binding:"required"`
	UsageLimit   int       `json:"usage_limit" binding:"omitempty,min=0"`
	RoomIDs      []string  `json:"room_ids"`
}

type UpdatePromotionRequest struct {
	Description *string    `json:"description" binding:"omitempty,max=500"`
	ValidFrom   *time.Time `json:"valid_from"`
	ValidUntil  *time.Time `json:"valid_until"`
	UsageLimit  *int       `json:"usage_limit" binding:"omitempty,min=0"`
	IsActive    *bool      `json:"is_active"`
	RoomIDs     []string   `json:"room_ids"`
}

func (p *Promotion) ToResponse() PromotionResponse {
	roomIDs := make([]string, 0, len(p.Rooms))
	for _, pr := range p.Rooms {
		roomIDs = append(roomIDs, pr.RoomID.String())
	}
	return PromotionResponse{
		ID:           p.ID.String(),
		PropertyID:   p.PropertyID.String(),
		Code:         p.Code,
		Description:  p.Description,
		DiscountType: p.DiscountType,
		Value:        p.Value,
		Currency:     p.Currency,
		ValidFrom:    p.ValidFrom,
		ValidUntil:   p.ValidUntil,
		UsageLimit:   p.UsageLimit,
		UsageCount:   p.UsageCount,
		IsActive:     p.IsActive,
		RoomIDs:      roomIDs,
		CreatedAt:    p.CreatedAt,
	}
}

// ToPricing converts the stored promotion into the resolver's shape.
func (p *Promotion) ToPricing() pricing.Promotion {
	roomIDs := make([]uuid.UUID, 0, len(p.Rooms))
	for _, pr := range p.Rooms {
		roomIDs = append(roomIDs, pr.RoomID)
	}
	return pricing.Promotion{
		Code:       p.Code,
		Type:       pricing.DiscountType(p.DiscountType),
		Value:      p.Value,
		RoomIDs:    roomIDs,
		ValidFrom:  p.ValidFrom,
		ValidUntil: p.ValidUntil,
		UsageLimit: p.UsageLimit,
		UsageCount: p.UsageCount,
	}
}

// TableName specifies the table name for GORM
func (Promotion) TableName() string {
	return "promotions"
}

func (PromotionRoom) TableName() string {
	return "promotion_rooms"
}

func (PromotionRedemption) TableName() string {
	return "promotion_redemptions"
}
