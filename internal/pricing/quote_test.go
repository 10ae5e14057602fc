package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuoteComposesTotals(t *testing.T) {
	rooms := []RoomCharge{
		{Nights: 2, Adults: 2, Subtotal: NewMoney(20000, "USD")},
		{Nights: 2, Adults: 1, Subtotal: NewMoney(12000, "USD")},
	}
	addons := []AddonCharge{
		{Name: "breakfast", Total: NewMoney(2400, "USD")},
	}
	promo := &PromotionDiscount{Code: "X", DiscountAmount: NewMoney(3200, "USD")}

	quote, err := BuildQuote(rooms, addons, promo)
	require.NoError(t, err)
	assert.Equal(t, int64(32000), quote.RoomsSubtotal.MinorUnits)
	assert.Equal(t, int64(2400), quote.AddonsSubtotal.MinorUnits)
	assert.Equal(t, int64(3200), quote.DiscountTotal.MinorUnits)
	assert.Equal(t, int64(31200), quote.GrandTotal.MinorUnits)
}

func TestBuildQuoteFloorsAtZero(t *testing.T) {
	rooms := []RoomCharge{{Nights: 1, Adults: 1, Subtotal: NewMoney(1000, "USD")}}
	promo := &PromotionDiscount{Code: "BIG", DiscountAmount: NewMoney(5000, "USD")}

	quote, err := BuildQuote(rooms, nil, promo)
	require.NoError(t, err)
	assert.True(t, quote.GrandTotal.IsZero())
}

func TestBuildQuoteRequiresRooms(t *testing.T) {
	_, err := BuildQuote(nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildQuoteCurrencyMismatch(t *testing.T) {
	rooms := []RoomCharge{
		{Subtotal: NewMoney(1000, "USD")},
		{Subtotal: NewMoney(1000, "EUR")},
	}

	_, err := BuildQuote(rooms, nil, nil)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestBuildQuoteRoundTripProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 300; i++ {
		var rooms []RoomCharge
		var roomsSum int64
		for r := 0; r < rng.Intn(4)+1; r++ {
			amount := int64(rng.Intn(100000))
			roomsSum += amount
			rooms = append(rooms, RoomCharge{Subtotal: NewMoney(amount, "USD")})
		}

		var addons []AddonCharge
		var addonsSum int64
		for a := 0; a < rng.Intn(4); a++ {
			amount := int64(rng.Intn(20000))
			addonsSum += amount
			addons = append(addons, AddonCharge{Total: NewMoney(amount, "USD")})
		}

		var promo *PromotionDiscount
		var discount int64
		if rng.Intn(2) == 1 {
			discount = int64(rng.Intn(150000))
			promo = &PromotionDiscount{DiscountAmount: NewMoney(discount, "USD")}
		}

		quote, err := BuildQuote(rooms, addons, promo)
		require.NoError(t, err)

		want := roomsSum + addonsSum - discount
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, quote.GrandTotal.MinorUnits,
			"grand total must equal rooms + addons - discount, clamped at zero")

		// pure function: identical inputs, identical output
		again, err := BuildQuote(rooms, addons, promo)
		require.NoError(t, err)
		assert.Equal(t, quote, again)
	}
}
