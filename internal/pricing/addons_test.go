package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceAddonModes(t *testing.T) {
	unit := NewMoney(150, "USD")

	tests := []struct {
		name     string
		mode     AddonPricingMode
		nights   int
		guests   int
		quantity int
		want     int64
	}{
		{"per booking", AddonPerBooking, 4, 2, 3, 450},
		{"per night", AddonPerNight, 4, 2, 1, 600},
		{"per guest", AddonPerGuest, 4, 2, 1, 300},
		{"per guest per night", AddonPerGuestPerNight, 4, 2, 1, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addon := Addon{Name: "breakfast", UnitPrice: unit, Mode: tt.mode}
			charge, err := PriceAddon(addon, tt.nights, tt.guests, tt.quantity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, charge.Total.MinorUnits)
			assert.Equal(t, unit, charge.BasePrice)
		})
	}
}

func TestAddonRoomScope(t *testing.T) {
	roomA := uuid.New()
	roomB := uuid.New()
	roomC := uuid.New()

	unscoped := Addon{Name: "breakfast", UnitPrice: NewMoney(150, "USD"), Mode: AddonPerBooking}
	assert.True(t, unscoped.Covers([]uuid.UUID{roomC}), "unscoped addon covers every room")

	scoped := Addon{
		Name:      "balcony champagne",
		UnitPrice: NewMoney(4000, "USD"),
		Mode:      AddonPerBooking,
		RoomIDs:   []uuid.UUID{roomA, roomB},
	}
	assert.True(t, scoped.Covers([]uuid.UUID{roomC, roomB}))
	assert.False(t, scoped.Covers([]uuid.UUID{roomC}))
	assert.False(t, scoped.Covers(nil))
}

func TestPriceAddonQuantityCap(t *testing.T) {
	addon := Addon{Name: "airport shuttle", UnitPrice: NewMoney(2500, "USD"), Mode: AddonPerBooking, MaxQuantity: 2}

	_, err := PriceAddon(addon, 1, 1, 3)
	assert.ErrorIs(t, err, ErrQuantityExceedsMax)

	charge, err := PriceAddon(addon, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), charge.Total.MinorUnits)
}

func TestPriceAddonUnboundedWhenNoCap(t *testing.T) {
	addon := Addon{Name: "towels", UnitPrice: NewMoney(100, "USD"), Mode: AddonPerBooking}

	charge, err := PriceAddon(addon, 1, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), charge.Total.MinorUnits)
}

func TestPriceAddonZeroQuantity(t *testing.T) {
	addon := Addon{Name: "spa", UnitPrice: NewMoney(9000, "USD"), Mode: AddonPerGuestPerNight}

	charge, err := PriceAddon(addon, 3, 2, 0)
	require.NoError(t, err)
	assert.True(t, charge.Total.IsZero())
}

func TestPriceAddonRejectsBadInputs(t *testing.T) {
	addon := Addon{Name: "parking", UnitPrice: NewMoney(800, "USD"), Mode: AddonPerNight}

	_, err := PriceAddon(addon, 0, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = PriceAddon(addon, 1, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = PriceAddon(addon, 1, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
