package addons

import (
	"time"

	"roomly/internal/pricing"

	"github.com/google/uuid"
)

// Addon represents a purchasable extra attached to a property
type Addon struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	PropertyID     uuid.UUID  `json:"property_id" gorm:"type:uuid;not null;index"`
	Name           string     `json:"name" gorm:"not null;size:100"`
	Description    string     `json:"description" gorm:"size:500"`
	UnitPriceMinor int64      `json:"unit_price_minor" gorm:"not null;check:unit_price_minor >= 0"`
	Currency       string     `json:"currency" gorm:"not null;size:3"`
	PricingMode    string     `json:"pricing_mode" gorm:"type:varchar(30);not null"`
	MaxQuantity    int        `json:"max_quantity" gorm:"default:0"` // 0 means unbounded
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	CreatedBy      uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy      *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Rooms []AddonRoom `json:"-" gorm:"foreignKey:AddonID;constraint:OnDelete:CASCADE;"`
}

// AddonRoom restricts an addon to specific rooms; no rows means property-wide
type AddonRoom struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	AddonID uuid.UUID `json:"addon_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_addon_room_unique"`
	RoomID  uuid.UUID `json:"room_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_addon_room_unique"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type AddonResponse struct {
	ID             string    `json:"id"`
	PropertyID     string    `json:"property_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	UnitPriceMinor int64     `json:"unit_price_minor"`
	Currency       string    `json:"currency"`
	PricingMode    string    `json:"pricing_mode"`
	MaxQuantity    int       `json:"max_quantity"`
	IsActive       bool      `json:"is_active"`
	RoomIDs        []string  `json:"room_ids"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateAddonRequest struct {
	Name           string   `json:"name" binding:"required,min=2,max=100"`
	Description    string   `json:"description" binding:"max=500"`
	UnitPriceMinor int64    `json:"unit_price_minor" binding:"required,min=0"`
	PricingMode    string   `json:"pricing_mode" binding:"required,oneof=per_booking per_night per_guest per_guest_per_night"`
	MaxQuantity    int      `json:"max_quantity" binding:"omitempty,min=0"`
	RoomIDs        []string `json:"room_ids"`
}

type UpdateAddonRequest struct {
	Name           *string  `json:"name" binding:"omitempty,min=2,max=100"`
	Description    *string  `json:"description" binding:"omitempty,max=500"`
	UnitPriceMinor *int64   `json:"unit_price_minor" binding:"omitempty,min=0"`
	PricingMode    *string  `json:"pricing_mode" binding:"omitempty,oneof=per_booking per_night per_guest per_guest_per_night"`
	MaxQuantity    *int     `json:"max_quantity" binding:"omitempty,min=0"`
	IsActive       *bool    `json:"is_active"`
	RoomIDs        []string `json:"room_ids"`
}

func (a *Addon) ToResponse() AddonResponse {
	roomIDs := make([]string, 0, len(a.Rooms))
	for _, ar := range a.Rooms {
		roomIDs = append(roomIDs, ar.RoomID.String())
	}
	return AddonResponse{
		ID:             a.ID.String(),
		PropertyID:     a.PropertyID.String(),
		Name:           a.Name,
		Description:    a.Description,
		UnitPriceMinor: a.UnitPriceMinor,
		Currency:       a.Currency,
		PricingMode:    a.PricingMode,
		MaxQuantity:    a.MaxQuantity,
		IsActive:       a.IsActive,
		RoomIDs:        roomIDs,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ToPricing converts the stored addon into the calculator's shape.
func (a *Addon) ToPricing() pricing.Addon {
	roomIDs := make([]uuid.UUID, 0, len(a.Rooms))
	for _, ar := range a.Rooms {
		roomIDs = append(roomIDs, ar.RoomID)
	}
	return pricing.Addon{
		Name:        a.Name,
		UnitPrice:   pricing.NewMoney(a.UnitPriceMinor, a.Currency),
		Mode:        pricing.AddonPricingMode(a.PricingMode),
		MaxQuantity: a.MaxQuantity,
		RoomIDs:     roomIDs,
	}
}

// TableName specifies the table name for GORM
func (Addon) TableName() string {
	return "addons"
}

func (AddonRoom) TableName() string {
	return "addon_rooms"
}
