package pricing

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// moderatePolicy: 100% refund at 5+ days, 50% at 1+ day, nothing after.
func moderatePolicy() CancellationPolicy {
	return CancellationPolicy{Tiers: []PolicyTier{
		{DaysBeforeCheckin: 5, RefundPercentage: 100},
		{DaysBeforeCheckin: 1, RefundPercentage: 50},
		{DaysBeforeCheckin: 0, RefundPercentage: 0},
	}}
}

func refundCheckin() time.Time {
	return time.Date(2026, 5, 20, 14, 0, 0, 0, time.UTC)
}

func TestCalculateRefundMidTier(t *testing.T) {
	checkin := refundCheckin()
	cancelled := checkin.AddDate(0, 0, -3)

	breakdown, err := CalculateRefund(moderatePolicy(), checkin, cancelled,
		NewMoney(10000, "USD"), Zero("USD"), NewMoney(10000, "USD"))
	require.NoError(t, err)

	assert.Equal(t, 1, breakdown.TierApplied.DaysBeforeCheckin)
	assert.Equal(t, 50, breakdown.TierApplied.RefundPercentage)
	assert.Equal(t, 3, breakdown.DaysBefore)
	assert.Equal(t, int64(5000), breakdown.SuggestedAmount.MinorUnits)
}

func TestCalculateRefundTopTier(t *testing.T) {
	checkin := refundCheckin()
	cancelled := checkin.AddDate(0, 0, -10)

	breakdown, err := CalculateRefund(moderatePolicy(), checkin, cancelled,
		NewMoney(10000, "USD"), Zero("USD"), NewMoney(10000, "USD"))
	require.NoError(t, err)

	assert.Equal(t, 5, breakdown.TierApplied.DaysBeforeCheckin)
	assert.Equal(t, int64(10000), breakdown.PolicyEntitlement.MinorUnits)
	assert.Equal(t, int64(10000), breakdown.SuggestedAmount.MinorUnits)
}

func TestCalculateRefundTracksPriorRefunds(t *testing.T) {
	checkin := refundCheckin()
	cancelled := checkin.AddDate(0, 0, -10)

	breakdown, err := CalculateRefund(moderatePolicy(), checkin, cancelled,
		NewMoney(10000, "USD"), NewMoney(3000, "USD"), NewMoney(10000, "USD"))
	require.NoError(t, err)

	assert.Equal(t, int64(10000), breakdown.PolicyEntitlement.MinorUnits)
	assert.Equal(t, int64(3000), breakdown.PriorRefundsTotal.MinorUnits)
	assert.Equal(t, int64(7000), breakdown.SuggestedAmount.MinorUnits)
}

func TestCalculateRefundNothingPaid(t *testing.T) {
	checkin := refundCheckin()
	cancelled := checkin.AddDate(0, 0, -10)

	breakdown, err := CalculateRefund(moderatePolicy(), checkin, cancelled,
		Zero("USD"), Zero("USD"), NewMoney(10000, "USD"))
	require.NoError(t, err)
	assert.True(t, breakdown.SuggestedAmount.IsZero(), "nothing paid, nothing to refund")
}

func TestCalculateRefundPartialPaymentCapsEntitlement(t *testing.T) {
	checkin := refundCheckin()
	cancelled := checkin.AddDate(0, 0, -10)

	// entitlement is 100% of 10000 but only 4000 was ever paid
	breakdown, err := CalculateRefund(moderatePolicy(), checkin, cancelled,
		NewMoney(4000, "USD"), Zero("USD"), NewMoney(10000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(4000), breakdown.SuggestedAmount.MinorUnits)
}

func TestCalculateRefundAfterCheckin(t *testing.T) {
	checkin := refundCheckin()
	cancelled := checkin.AddDate(0, 0, 2)

	breakdown, err := CalculateRefund(moderatePolicy(), checkin, cancelled,
		NewMoney(10000, "USD"), Zero("USD"), NewMoney(10000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, 0, breakdown.DaysBefore)
	assert.Equal(t, 0, breakdown.TierApplied.RefundPercentage)
	assert.True(t, breakdown.SuggestedAmount.IsZero())
}

func TestCalculateRefundNoZeroTier(t *testing.T) {
	policy := CancellationPolicy{Tiers: []PolicyTier{
		{DaysBeforeCheckin: 5, RefundPercentage: 100},
		{DaysBeforeCheckin: 1, RefundPercentage: 50},
	}}
	checkin := refundCheckin()
	cancelled := checkin.AddDate(0, 0, 1)

	_, err := CalculateRefund(policy, checkin, cancelled,
		NewMoney(10000, "USD"), Zero("USD"), NewMoney(10000, "USD"))
	assert.ErrorIs(t, err, ErrNoApplicableTier)
}

func TestCalculateRefundInvalidPolicies(t *testing.T) {
	checkin := refundCheckin()
	cancelled := checkin.AddDate(0, 0, -3)
	paid := NewMoney(10000, "USD")

	t.Run("no tiers", func(t *testing.T) {
		_, err := CalculateRefund(CancellationPolicy{}, checkin, cancelled, paid, Zero("USD"), paid)
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("not descending", func(t *testing.T) {
		policy := CancellationPolicy{Tiers: []PolicyTier{
			{DaysBeforeCheckin: 1, RefundPercentage: 50},
			{DaysBeforeCheckin: 5, RefundPercentage: 100},
		}}
		_, err := CalculateRefund(policy, checkin, cancelled, paid, Zero("USD"), paid)
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("percentage out of range", func(t *testing.T) {
		policy := CancellationPolicy{Tiers: []PolicyTier{
			{DaysBeforeCheckin: 0, RefundPercentage: 120},
		}}
		_, err := CalculateRefund(policy, checkin, cancelled, paid, Zero("USD"), paid)
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})
}

func TestCalculateRefundCurrencyMismatch(t *testing.T) {
	checkin := refundCheckin()
	cancelled := checkin.AddDate(0, 0, -3)

	_, err := CalculateRefund(moderatePolicy(), checkin, cancelled,
		NewMoney(10000, "EUR"), Zero("USD"), NewMoney(10000, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestCalculateRefundInvariantFuzz(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	checkin := refundCheckin()

	for i := 0; i < 500; i++ {
		// random descending policy ending in a 0-day floor
		tierCount := rng.Intn(4) + 1
		thresholds := map[int]bool{0: true}
		for len(thresholds) < tierCount {
			thresholds[rng.Intn(30)+1] = true
		}
		var days []int
		for d := range thresholds {
			days = append(days, d)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(days)))

		var tiers []PolicyTier
		for _, d := range days {
			tiers = append(tiers, PolicyTier{DaysBeforeCheckin: d, RefundPercentage: rng.Intn(101)})
		}
		policy := CancellationPolicy{Tiers: tiers}

		total := NewMoney(int64(rng.Intn(1000000)), "USD")
		paid := NewMoney(int64(rng.Intn(int(total.MinorUnits)+1)), "USD")
		prior := NewMoney(int64(rng.Intn(int(paid.MinorUnits)+1)), "USD")
		cancelled := checkin.AddDate(0, 0, -rng.Intn(40))

		breakdown, err := CalculateRefund(policy, checkin, cancelled, paid, prior, total)
		require.NoError(t, err)

		maxPayable := paid.MinorUnits - prior.MinorUnits
		if maxPayable < 0 {
			maxPayable = 0
		}
		assert.LessOrEqual(t, breakdown.SuggestedAmount.MinorUnits, maxPayable,
			"refund can never exceed what remains refundable")
		assert.LessOrEqual(t, breakdown.SuggestedAmount.MinorUnits, breakdown.PolicyEntitlement.MinorUnits,
			"refund can never exceed the policy entitlement")
		assert.False(t, breakdown.SuggestedAmount.IsNegative())

		again, err := CalculateRefund(policy, checkin, cancelled, paid, prior, total)
		require.NoError(t, err)
		assert.Equal(t, breakdown, again)
	}
}

func TestAssessOverride(t *testing.T) {
	breakdown := RefundBreakdown{
		PolicyEntitlement: NewMoney(5000, "USD"),
		TotalPaid:         NewMoney(10000, "USD"),
		PriorRefundsTotal: NewMoney(2000, "USD"),
	}

	t.Run("within bounds and entitlement", func(t *testing.T) {
		got, err := AssessOverride(breakdown, NewMoney(4000, "USD"))
		require.NoError(t, err)
		assert.True(t, got.WithinPaidBounds)
		assert.False(t, got.ExceedsEntitlement)
		assert.Equal(t, int64(8000), got.MaxRefundable.MinorUnits)
	})

	t.Run("above entitlement is flagged, not rejected", func(t *testing.T) {
		got, err := AssessOverride(breakdown, NewMoney(6000, "USD"))
		require.NoError(t, err)
		assert.True(t, got.WithinPaidBounds)
		assert.True(t, got.ExceedsEntitlement)
	})

	t.Run("above remaining paid is out of bounds", func(t *testing.T) {
		got, err := AssessOverride(breakdown, NewMoney(9000, "USD"))
		require.NoError(t, err)
		assert.False(t, got.WithinPaidBounds)
	})

	t.Run("negative override is out of bounds", func(t *testing.T) {
		got, err := AssessOverride(breakdown, NewMoney(-100, "USD"))
		require.NoError(t, err)
		assert.False(t, got.WithinPaidBounds)
	})

	t.Run("currency mismatch", func(t *testing.T) {
		_, err := AssessOverride(breakdown, NewMoney(100, "EUR"))
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})
}
