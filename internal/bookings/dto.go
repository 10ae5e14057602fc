package bookings

import (
	"time"

	"roomly/internal/addons"
	"roomly/internal/policies"

	"github.com/google/uuid"
)

// RoomSelection is one requested room on a quote or booking
type RoomSelection struct {
	RoomID   string `json:"room_id" binding:"required,uuid"`
	Adults   int    `json:"adults" binding:"required,min=1"`
	Children int    `json:"children" binding:"omitempty,min=0"`
}

// QuoteRequest prices a prospective stay without committing inventory
type QuoteRequest struct {
	PropertyID string             `json:"property_id" binding:"required,uuid"`
	Checkin    string             `json:"checkin" binding:"required"`  // YYYY-MM-DD
	Checkout   string             `json:"checkout" binding:"required"` // YYYY-MM-DD
	Rooms      []RoomSelection    `json:"rooms" binding:"required,min=1,dive"`
	Addons     []addons.Selection `json:"addons" binding:"omitempty,dive"`
	PromoCode  string             `json:"promo_code" binding:"omitempty,max=50"`
}

// CreateBookingRequest confirms a quoted stay
type CreateBookingRequest struct {
	QuoteRequest
	GuestName  string `json:"guest_name" binding:"required,max=255"`
	GuestEmail string `json:"guest_email" binding:"required,email"`
}

type QuotedRoom struct {
	RoomID        string `json:"room_id"`
	RoomName      string `json:"room_name"`
	Nights        int    `json:"nights"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	SubtotalMinor int64  `json:"subtotal_minor"`
}

type QuotedAddon struct {
	AddonID        string `json:"addon_id"`
	Name           string `json:"name"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	Multiplier     int    `json:"multiplier"`
	Quantity       int    `json:"quantity"`
	TotalMinor     int64  `json:"total_minor"`
}

type QuotedInstallment struct {
	Sequence    int       `json:"sequence"`
	AmountMinor int64     `json:"amount_minor"`
	DueDate     time.Time `json:"due_date"`
}

// QuoteResponse is the full priced picture for a prospective stay
type QuoteResponse struct {
	PropertyID          string              `json:"property_id"`
	Currency            string              `json:"currency"`
	Checkin             string              `json:"checkin"`
	Checkout            string              `json:"checkout"`
	Rooms               []QuotedRoom        `json:"rooms"`
	Addons              []QuotedAddon       `json:"addons"`
	RoomsSubtotalMinor  int64               `json:"rooms_subtotal_minor"`
	AddonsSubtotalMinor int64               `json:"addons_subtotal_minor"`
	DiscountMinor       int64               `json:"discount_minor"`
	PromoCode           string              `json:"promo_code,omitempty"`
	GrandTotalMinor     int64               `json:"grand_total_minor"`
	Installments        []QuotedInstallment `json:"installments"`
}

type BookingResponse struct {
	ID                  string               `json:"id"`
	BookingRef          string               `json:"booking_ref"`
	UserID              string               `json:"user_id"`
	PropertyID          string               `json:"property_id"`
	Status              Status               `json:"status"`
	GuestName           string               `json:"guest_name"`
	GuestEmail          string               `json:"guest_email"`
	CheckinDate         time.Time            `json:"checkin_date"`
	CheckoutDate        time.Time            `json:"checkout_date"`
	Currency            string               `json:"currency"`
	RoomsSubtotalMinor  int64                `json:"rooms_subtotal_minor"`
	AddonsSubtotalMinor int64                `json:"addons_subtotal_minor"`
	DiscountMinor       int64                `json:"discount_minor"`
	GrandTotalMinor     int64                `json:"grand_total_minor"`
	TotalPaidMinor      int64                `json:"total_paid_minor"`
	PolicySnapshot      policies.PolicyTiers `json:"policy_snapshot,omitempty"`
	Rooms               []BookingRoom        `json:"rooms,omitempty"`
	Addons              []BookingAddon       `json:"addons,omitempty"`
	Installments        []PaymentInstallment `json:"installments,omitempty"`
	CancelledAt         *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
}

type RecordPaymentRequest struct {
	InstallmentID string `json:"installment_id" binding:"omitempty,uuid"`
	AmountMinor   int64  `json:"amount_minor" binding:"required,min=1"`
	Method        string `json:"method" binding:"required,oneof=card bank_transfer cash"`
	Reference     string `json:"reference" binding:"omitempty,max=100"`
}

type BookingListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending_payment confirmed checked_in completed cancelled"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

func (b *Booking) ToResponse(totalPaid int64) BookingResponse {
	return BookingResponse{
		ID:                  b.ID.String(),
		BookingRef:          b.BookingRef,
		UserID:              b.UserID.String(),
		PropertyID:          b.PropertyID.String(),
		Status:              b.Status,
		GuestName:           b.GuestName,
		GuestEmail:          b.GuestEmail,
		CheckinDate:         b.CheckinDate,
		CheckoutDate:        b.CheckoutDate,
		Currency:            b.Currency,
		RoomsSubtotalMinor:  b.RoomsSubtotalMinor,
		AddonsSubtotalMinor: b.AddonsSubtotalMinor,
		DiscountMinor:       b.DiscountMinor,
		GrandTotalMinor:     b.GrandTotalMinor,
		TotalPaidMinor:      totalPaid,
		PolicySnapshot:      b.PolicySnapshot,
		Rooms:               b.Rooms,
		Addons:              b.Addons,
		Installments:        b.Installments,
		CancelledAt:         b.CancelledAt,
		CreatedAt:           b.CreatedAt,
	}
}

// uuidOrNil parses an optional UUID field
func uuidOrNil(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
