package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DiscountType selects how a promotion's value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Promotion is the snapshot of a promotion code handed to the
// resolver. Value is a percentage for percentage promotions and a
// minor-unit amount for fixed ones. An empty RoomIDs list means the
// promotion covers every room of the property. UsageLimit 0 means
// unlimited.
type Promotion struct {
	Code       string       `json:"code"`
	Type       DiscountType `json:"type"`
	Value      int64        `json:"value"`
	RoomIDs    []uuid.UUID  `json:"room_ids,omitempty"`
	ValidFrom  time.Time    `json:"valid_from"`
	ValidUntil time.Time    `json:"valid_until"`
	UsageLimit int          `json:"usage_limit"`
	UsageCount int          `json:"usage_count"`
}

// PromotionDiscount is the resolved discount against a room subtotal.
type PromotionDiscount struct {
	Code               string `json:"code"`
	DiscountAmount     Money  `json:"discount_amount"`
	DiscountedSubtotal Money  `json:"discounted_subtotal"`
}

// ResolvePromotion validates a promotion against the booking date and
// target room and applies it to the room subtotal. Checks run in a
// fixed order: validity window, usage limit, room scope. A fixed
// discount is clamped to the subtotal so it can never push the room
// below zero.
func ResolvePromotion(promo Promotion, roomID uuid.UUID, bookingDate time.Time, subtotal Money) (PromotionDiscount, error) {
	if bookingDate.Before(promo.ValidFrom) || bookingDate.After(promo.ValidUntil) {
		return PromotionDiscount{}, fmt.Errorf("%w: code %q", ErrPromotionExpired, promo.Code)
	}
	if promo.UsageLimit > 0 && promo.UsageCount >= promo.UsageLimit {
		return PromotionDiscount{}, fmt.Errorf("%w: code %q", ErrPromotionExhausted, promo.Code)
	}
	if !promo.coversRoom(roomID) {
		return PromotionDiscount{}, fmt.Errorf("%w: code %q, room %s", ErrPromotionNotApplicable, promo.Code, roomID)
	}

	var discount Money
	switch promo.Type {
	case DiscountPercentage:
		discount = subtotal.PercentOf(int(promo.Value))
	case DiscountFixed:
		fixed := NewMoney(promo.Value, subtotal.Currency)
		clamped, err := fixed.Min(subtotal)
		if err != nil {
			return PromotionDiscount{}, err
		}
		discount = clamped
	default:
		return PromotionDiscount{}, fmt.Errorf("%w: unknown discount type %q", ErrInvalidInput, promo.Type)
	}

	remaining, err := subtotal.Sub(discount)
	if err != nil {
		return PromotionDiscount{}, err
	}

	return PromotionDiscount{
		Code:               promo.Code,
		DiscountAmount:     discount,
		DiscountedSubtotal: remaining.ClampZero(),
	}, nil
}

func (p Promotion) coversRoom(roomID uuid.UUID) bool {
	if len(p.RoomIDs) == 0 {
		return true
	}
	for _, id := range p.RoomIDs {
		if id == roomID {
			return true
		}
	}
	return false
}
