package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPromo() Promotion {
	return Promotion{
		Code:       "SUMMER10",
		Type:       DiscountPercentage,
		Value:      10,
		ValidFrom:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolvePromotionPercentage(t *testing.T) {
	promo := validPromo()
	bookingDate := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	discount, err := ResolvePromotion(promo, uuid.New(), bookingDate, NewMoney(20000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(2000), discount.DiscountAmount.MinorUnits)
	assert.Equal(t, int64(18000), discount.DiscountedSubtotal.MinorUnits)
}

func TestResolvePromotionFixedClampedToSubtotal(t *testing.T) {
	promo := validPromo()
	promo.Type = DiscountFixed
	promo.Value = 5000
	bookingDate := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	discount, err := ResolvePromotion(promo, uuid.New(), bookingDate, NewMoney(3000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(3000), discount.DiscountAmount.MinorUnits)
	assert.True(t, discount.DiscountedSubtotal.IsZero(), "subtotal can never go negative")
}

func TestResolvePromotionExpired(t *testing.T) {
	promo := validPromo()

	_, err := ResolvePromotion(promo, uuid.New(), time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), NewMoney(10000, "USD"))
	assert.ErrorIs(t, err, ErrPromotionExpired)

	_, err = ResolvePromotion(promo, uuid.New(), time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), NewMoney(10000, "USD"))
	assert.ErrorIs(t, err, ErrPromotionExpired)
}

func TestResolvePromotionExhausted(t *testing.T) {
	promo := validPromo()
	promo.UsageLimit = 5
	promo.UsageCount = 5
	bookingDate := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	_, err := ResolvePromotion(promo, uuid.New(), bookingDate, NewMoney(10000, "USD"))
	assert.ErrorIs(t, err, ErrPromotionExhausted)
}

func TestResolvePromotionRoomScope(t *testing.T) {
	inScope := uuid.New()
	promo := validPromo()
	promo.RoomIDs = []uuid.UUID{inScope}
	bookingDate := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	_, err := ResolvePromotion(promo, uuid.New(), bookingDate, NewMoney(10000, "USD"))
	assert.ErrorIs(t, err, ErrPromotionNotApplicable)

	discount, err := ResolvePromotion(promo, inScope, bookingDate, NewMoney(10000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), discount.DiscountAmount.MinorUnits)
}

func TestResolvePromotionValidationOrder(t *testing.T) {
	// expired beats exhausted beats scope: an expired, exhausted,
	// out-of-scope promo reports expiry first
	promo := validPromo()
	promo.UsageLimit = 1
	promo.UsageCount = 1
	promo.RoomIDs = []uuid.UUID{uuid.New()}

	_, err := ResolvePromotion(promo, uuid.New(), time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), NewMoney(10000, "USD"))
	assert.ErrorIs(t, err, ErrPromotionExpired)
}
