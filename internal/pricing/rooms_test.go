package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceRoomFlat(t *testing.T) {
	rate := RoomRate{NightlyRate: NewMoney(12000, "USD"), Mode: OccupancyFlat, MaxOccupancy: 4}

	charge, err := PriceRoom(rate, 3, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(36000), charge.Subtotal.MinorUnits)
}

func TestPriceRoomPerPersonSharing(t *testing.T) {
	rate := RoomRate{NightlyRate: NewMoney(5000, "USD"), Mode: OccupancyPerPersonSharing, MaxOccupancy: 6}

	charge, err := PriceRoom(rate, 2, 2, 2)
	require.NoError(t, err)
	// 5000 * 2 nights * 4 guests
	assert.Equal(t, int64(40000), charge.Subtotal.MinorUnits)
}

func TestPriceRoomChildDiscount(t *testing.T) {
	rate := RoomRate{
		NightlyRate:      NewMoney(5000, "USD"),
		Mode:             OccupancyPerPersonSharing,
		MaxOccupancy:     6,
		ChildDiscountPct: 50,
	}

	charge, err := PriceRoom(rate, 2, 2, 2)
	require.NoError(t, err)
	// children count as half a person: 5000 * 2 * (2 + 2*0.5) = 30000
	assert.Equal(t, int64(30000), charge.Subtotal.MinorUnits)
}

func TestPriceRoomChildDiscountSingleRounding(t *testing.T) {
	// 3333 * 3 nights * (1 adult + 1 child at 67%) = 3333*3*1.67 =
	// 16698.33 -> rounds once at the end, not per night.
	rate := RoomRate{
		NightlyRate:      NewMoney(3333, "USD"),
		Mode:             OccupancyPerPersonSharing,
		MaxOccupancy:     4,
		ChildDiscountPct: 33,
	}

	charge, err := PriceRoom(rate, 3, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(16698), charge.Subtotal.MinorUnits)
}

func TestPriceRoomCapacityExceeded(t *testing.T) {
	rate := RoomRate{NightlyRate: NewMoney(5000, "USD"), Mode: OccupancyFlat, MaxOccupancy: 2}

	_, err := PriceRoom(rate, 1, 2, 1)
	assert.ErrorIs(t, err, ErrOccupancyExceedsCapacity)
}

func TestPriceRoomRejectsBadInputs(t *testing.T) {
	rate := RoomRate{NightlyRate: NewMoney(5000, "USD"), Mode: OccupancyFlat, MaxOccupancy: 4}

	_, err := PriceRoom(rate, 0, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = PriceRoom(rate, 1, 0, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPriceRoomMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		mode := OccupancyFlat
		if rng.Intn(2) == 1 {
			mode = OccupancyPerPersonSharing
		}
		rate := RoomRate{
			NightlyRate:      NewMoney(int64(rng.Intn(50000)+1), "USD"),
			Mode:             mode,
			MaxOccupancy:     10,
			ChildDiscountPct: rng.Intn(101),
		}
		nights := rng.Intn(10) + 1
		adults := rng.Intn(4) + 1
		children := rng.Intn(4)

		base, err := PriceRoom(rate, nights, adults, children)
		require.NoError(t, err)

		moreNights, err := PriceRoom(rate, nights+1, adults, children)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, moreNights.Subtotal.MinorUnits, base.Subtotal.MinorUnits,
			"subtotal must not decrease with more nights")

		moreGuests, err := PriceRoom(rate, nights, adults+1, children)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, moreGuests.Subtotal.MinorUnits, base.Subtotal.MinorUnits,
			"subtotal must not decrease with more guests")
	}
}

func TestPriceRoomIdempotent(t *testing.T) {
	rate := RoomRate{
		NightlyRate:      NewMoney(7777, "USD"),
		Mode:             OccupancyPerPersonSharing,
		MaxOccupancy:     5,
		ChildDiscountPct: 25,
	}

	first, err := PriceRoom(rate, 4, 2, 1)
	require.NoError(t, err)
	second, err := PriceRoom(rate, 4, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
