package bookings

import (
	"time"

	"roomly/internal/policies"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusConfirmed      Status = "confirmed"
	StatusCheckedIn      Status = "checked_in"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentVoided  InstallmentStatus = "voided"
)

type Booking struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingRef string    `json:"booking_ref" gorm:"unique;not null;size:20"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	PropertyID uuid.UUID `json:"property_id" gorm:"type:uuid;not null;index"`
	Status     Status    `json:"status" gorm:"type:varchar(20);default:'pending_payment';index"`

	// Guest contact captured at booking time. Authentication is an
	// external boundary, so this is the only contact record we hold.
	GuestName  string `json:"guest_name" gorm:"not null;size:255"`
	GuestEmail string `json:"guest_email" gorm:"not null;size:255"`

	CheckinDate  time.Time `json:"checkin_date" gorm:"not null"`
	CheckoutDate time.Time `json:"checkout_date" gorm:"not null"`
	Adults       int       `json:"adults" gorm:"not null;check:adults > 0"`
	Children     int       `json:"children" gorm:"default:0;check:children >= 0"`

	// Priced totals, all in minor units of Currency
	Currency            string `json:"currency" gorm:"not null;size:3"`
	RoomsSubtotalMinor  int64  `json:"rooms_subtotal_minor" gorm:"not null"`
	AddonsSubtotalMinor int64  `json:"addons_subtotal_minor" gorm:"not null"`
	DiscountMinor       int64  `json:"discount_minor" gorm:"not null;default:0"`
	GrandTotalMinor     int64  `json:"grand_total_minor" gorm:"not null"`

	PromotionID   *uuid.UUID `json:"promotion_id" gorm:"type:uuid"`
	PaymentRuleID *uuid.UUID `json:"payment_rule_id" gorm:"type:uuid"`

	// Cancellation policy snapshot taken at confirmation. Later edits to the
	// live policy never touch this booking.
	PolicyID       *uuid.UUID           `json:"policy_id" gorm:"type:uuid"`
	PolicySnapshot policies.PolicyTiers `json:"policy_snapshot" gorm:"type:jsonb"`

	Rooms        []BookingRoom        `json:"rooms,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
	Addons       []BookingAddon       `json:"addons,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
	Installments []PaymentInstallment `json:"installments,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
	Payments     []Payment            `json:"payments,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT;"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type BookingRoom struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	RoomID    uuid.UUID `json:"room_id" gorm:"type:uuid;not null;index"`
	RoomName  string    `json:"room_name" gorm:"not null;size:255"`

	CheckinDate  time.Time `json:"checkin_date" gorm:"type:date;not null"`
	CheckoutDate time.Time `json:"checkout_date" gorm:"type:date;not null"`
	Nights       int       `json:"nights" gorm:"not null"`
	Adults       int       `json:"adults" gorm:"not null"`
	Children     int       `json:"children" gorm:"default:0"`

	SubtotalMinor int64 `json:"subtotal_minor" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type BookingAddon struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	AddonID   uuid.UUID `json:"addon_id" gorm:"type:uuid;not null"`
	Name      string    `json:"name" gorm:"not null;size:100"`

	UnitPriceMinor int64 `json:"unit_price_minor" gorm:"not null"`
	Multiplier     int   `json:"multiplier" gorm:"not null"`
	Quantity       int   `json:"quantity" gorm:"not null"`
	TotalMinor     int64 `json:"total_minor" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type PaymentInstallment struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID   uuid.UUID         `json:"booking_id" gorm:"type:uuid;not null;index"`
	Sequence    int               `json:"sequence" gorm:"not null"`
	AmountMinor int64             `json:"amount_minor" gorm:"not null"`
	DueDate     time.Time         `json:"due_date" gorm:"not null"`
	Status      InstallmentStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	PaidAt      *time.Time        `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Payment struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID     uuid.UUID  `json:"booking_id" gorm:"type:uuid;not null;index"`
	InstallmentID *uuid.UUID `json:"installment_id" gorm:"type:uuid"`
	AmountMinor   int64      `json:"amount_minor" gorm:"not null;check:amount_minor > 0"`
	Method        string     `json:"method" gorm:"type:varchar(30);not null"`
	Reference     string     `json:"reference" gorm:"size:100"`
	PaidAt        time.Time  `json:"paid_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

func (BookingRoom) TableName() string {
	return "booking_rooms"
}

func (BookingAddon) TableName() string {
	return "booking_addons"
}

func (PaymentInstallment) TableName() string {
	return "payment_installments"
}

func (Payment) TableName() string {
	return "payments"
}
