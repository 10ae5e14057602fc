package properties

import (
	"time"

	"roomly/internal/pricing"

	"github.com/google/uuid"
)

type PropertyStatus string

const (
	StatusDraft    PropertyStatus = "draft"
	StatusActive   PropertyStatus = "active"
	StatusInactive PropertyStatus = "inactive"
)

type Property struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string         `json:"name" gorm:"not null;size:255"`
	Description string         `json:"description" gorm:"type:text"`
	Address     string         `json:"address" gorm:"not null;size:500"`
	City        string         `json:"city" gorm:"not null;size:100;index"`
	Country     string         `json:"country" gorm:"not null;size:100"`
	Currency    string         `json:"currency" gorm:"not null;size:3"`
	Status      PropertyStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
	ImageURL    string         `json:"image_url" gorm:"size:500"`

	Rooms []Room `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE;"`

	HostID    uuid.UUID  `json:"host_id" gorm:"type:uuid;not null;index"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type Room struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	PropertyID       uuid.UUID `json:"property_id" gorm:"type:uuid;not null;index"`
	Name             string    `json:"name" gorm:"not null;size:255"`
	Description      string    `json:"description" gorm:"type:text"`
	NightlyRateMinor int64     `json:"nightly_rate_minor" gorm:"not null;check:nightly_rate_minor >= 0"`
	Currency         string    `json:"currency" gorm:"not null;size:3"`
	OccupancyMode    string    `json:"occupancy_mode" gorm:"type:varchar(30);default:'flat'"`
	MaxOccupancy     int       `json:"max_occupancy" gorm:"not null;check:max_occupancy > 0"`
	ChildDiscountPct int       `json:"child_discount_pct" gorm:"default:0;check:child_discount_pct >= 0 AND child_discount_pct <= 100"`
	TotalUnits       int       `json:"total_units" gorm:"not null;default:1;check:total_units > 0"`
	IsActive         bool      `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type PropertyResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Address     string         `json:"address"`
	City        string         `json:"city"`
	Country     string         `json:"country"`
	Currency    string         `json:"currency"`
	Status      PropertyStatus `json:"status"`
	ImageURL    string         `json:"image_url"`
	RoomCount   int            `json:"room_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type RoomResponse struct {
	ID               string    `json:"id"`
	PropertyID       string    `json:"property_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	NightlyRateMinor int64     `json:"nightly_rate_minor"`
	Currency         string    `json:"currency"`
	OccupancyMode    string    `json:"occupancy_mode"`
	MaxOccupancy     int       `json:"max_occupancy"`
	ChildDiscountPct int       `json:"child_discount_pct"`
	TotalUnits       int       `json:"total_units"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

type CreatePropertyRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"max=2000"`
	Address     string `json:"address" binding:"required,min=5,max=500"`
	City        string `json:"city" binding:"required,min=2,max=100"`
	Country     string `json:"country" binding:"required,min=2,max=100"`
	Currency    string `json:"currency" binding:"required,len=3"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
}

type UpdatePropertyRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Address     *string `json:"address" binding:"omitempty,min=5,max=500"`
	City        *string `json:"city" binding:"omitempty,min=2,max=100"`
	Country     *string `json:"country" binding:"omitempty,min=2,max=100"`
	Status      *string `json:"status" binding:"omitempty,oneof=draft active inactive"`
	ImageURL    *string `json:"image_url" binding:"omitempty,url"`
}

type CreateRoomRequest struct {
	Name             string `json:"name" binding:"required,min=2,max=255"`
	Description      string `json:"description" binding:"max=2000"`
	NightlyRateMinor int64  `json:"nightly_rate_minor" binding:"required,min=0"`
	OccupancyMode    string `json:"occupancy_mode" binding:"omitempty,oneof=flat per_person_sharing"`
	MaxOccupancy     int    `json:"max_occupancy" binding:"required,min=1,max=20"`
	ChildDiscountPct int    `json:"child_discount_pct" binding:"omitempty,min=0,max=100"`
	TotalUnits       int    `json:"total_units" binding:"omitempty,min=1,max=1000"`
}

type UpdateRoomRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=2,max=255"`
	Description      *string `json:"description" binding:"omitempty,max=2000"`
	NightlyRateMinor *int64  `json:"nightly_rate_minor" binding:"omitempty,min=0"`
	OccupancyMode    *string `json:"occupancy_mode" binding:"omitempty,oneof=flat per_person_sharing"`
	MaxOccupancy     *int    `json:"max_occupancy" binding:"omitempty,min=1,max=20"`
	ChildDiscountPct *int    `json:"child_discount_pct" binding:"omitempty,min=0,max=100"`
	TotalUnits       *int    `json:"total_units" binding:"omitempty,min=1,max=1000"`
	IsActive         *bool   `json:"is_active"`
}

type PropertyListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	City   string `form:"city"`
	Status string `form:"status" binding:"omitempty,oneof=draft active inactive"`
}

type PaginatedProperties struct {
	Properties []PropertyResponse `json:"properties"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

func (p *Property) ToResponse() PropertyResponse {
	return PropertyResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		City:        p.City,
		Country:     p.Country,
		Currency:    p.Currency,
		Status:      p.Status,
		ImageURL:    p.ImageURL,
		RoomCount:   len(p.Rooms),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *Room) ToResponse() RoomResponse {
	return RoomResponse{
		ID:               r.ID.String(),
		PropertyID:       r.PropertyID.String(),
		Name:             r.Name,
		Description:      r.Description,
		NightlyRateMinor: r.NightlyRateMinor,
		Currency:         r.Currency,
		OccupancyMode:    r.OccupancyMode,
		MaxOccupancy:     r.MaxOccupancy,
		ChildDiscountPct: r.ChildDiscountPct,
		TotalUnits:       r.TotalUnits,
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt,
	}
}

// Rate converts the stored room into the calculator's rate card.
func (r *Room) Rate() pricing.RoomRate {
	mode := pricing.OccupancyFlat
	if r.OccupancyMode == string(pricing.OccupancyPerPersonSharing) {
		mode = pricing.OccupancyPerPersonSharing
	}
	return pricing.RoomRate{
		NightlyRate:      pricing.NewMoney(r.NightlyRateMinor, r.Currency),
		Mode:             mode,
		MaxOccupancy:     r.MaxOccupancy,
		ChildDiscountPct: r.ChildDiscountPct,
	}
}

// TableName specifies the table name for GORM
func (Property) TableName() string {
	return "properties"
}

func (Room) TableName() string {
	return "rooms"
}
